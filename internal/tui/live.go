package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/sched"
	"github.com/san-kum/splitflap/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints an animating letter body straight to a writer,
// without taking over the terminal.
type LiveRenderer struct {
	out       io.Writer
	styles    viz.Styles
	width     int
	frameRate int
	last      time.Duration
	drawn     bool
}

func NewLiveRenderer(out io.Writer, styles viz.Styles, width, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &LiveRenderer{out: out, styles: styles, width: max(width, 10), frameRate: frameRate}
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

// OnFrame draws the run as of virtual time now. Frames closer together
// than the frame rate allows are dropped; it reports whether it drew.
func (r *LiveRenderer) OnFrame(run *flap.Run, now time.Duration) bool {
	if r.drawn && now-r.last < time.Second/time.Duration(r.frameRate) {
		return false
	}
	r.last, r.drawn = now, true
	fmt.Fprint(r.out, clearScreen+r.Frame(run.Snapshot())+"\n")
	return true
}

// Frame renders the started lines, signature last after a blank line.
func (r *LiveRenderer) Frame(views []flap.LineView) string {
	var body, sig []string
	for _, lv := range views {
		if !lv.Started {
			continue
		}
		text := renderLine(r.styles, lv, r.width)
		if lv.Signature {
			sig = append(sig, text)
		} else {
			body = append(body, text)
		}
	}
	if len(sig) > 0 {
		body = append(body, "")
		body = append(body, sig...)
	}
	return strings.Join(body, "\n")
}

// Play animates lines in real time and returns when they have all
// settled or ctx is done.
func (r *LiveRenderer) Play(ctx context.Context, anim *flap.Animator, s *sched.Scheduler, lines []flap.Line) error {
	finished := false
	run, err := anim.Animate(lines, func() { finished = true })
	if err != nil {
		return err
	}
	r.Start()
	defer r.Stop()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	base := s.Now()
	start := time.Now()
	for !finished {
		select {
		case <-ctx.Done():
			run.Cancel()
			return ctx.Err()
		case t := <-ticker.C:
			s.AdvanceTo(base + t.Sub(start))
			r.OnFrame(run, s.Now())
		}
	}
	r.drawn = false
	r.OnFrame(run, s.Now())
	return nil
}
