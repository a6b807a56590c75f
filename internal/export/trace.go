package export

import (
	"errors"
	"math/rand"
	"time"

	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/sched"
)

// ErrIncomplete means a recorded run did not finish within the callback
// limit.
var ErrIncomplete = errors.New("export: run did not complete")

const drainLimit = 1 << 22

// Trace is a measured run: every settle as it happened on a virtual clock.
type Trace struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset,omitempty"`
	Seed      int64     `json:"seed"`
	Recorded  time.Time `json:"recorded"`
	PerCharMS float64   `json:"per_char_ms"`
	TotalMS   float64   `json:"total_ms"`
	Lines     int       `json:"lines"`
	Settles   []Settle  `json:"settles"`
}

type Settle struct {
	Line  int     `json:"line"`
	Index int     `json:"index"`
	Glyph string  `json:"glyph"`
	Role  string  `json:"role"`
	AtMS  float64 `json:"at_ms"`
}

// Record runs the animator to completion on a private scheduler.
func Record(lines []flap.Line, opts flap.Options, seed int64) (*Trace, error) {
	s := sched.New()
	anim, err := flap.New(s, opts, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	tr := &Trace{Seed: seed, Recorded: time.Now(), Lines: len(lines)}
	var start time.Duration
	anim.SetHooks(flap.Hooks{
		OnLineStart: func(line int, _ flap.Line) {
			if line == 0 {
				start = s.Now()
			}
		},
		OnSettle: func(ev flap.SettleEvent) {
			tr.Settles = append(tr.Settles, Settle{
				Line:  ev.Line,
				Index: ev.Index,
				Glyph: string(ev.Glyph),
				Role:  ev.Role.String(),
				AtMS:  millis(ev.At - start),
			})
		},
	})

	done := false
	run, err := anim.Animate(lines, func() { done = true })
	if err != nil {
		return nil, err
	}
	s.Drain(drainLimit)
	if !done {
		run.Cancel()
		return nil, ErrIncomplete
	}

	tr.ID = run.ID
	tr.PerCharMS = millis(run.PerChar())
	tr.TotalMS = millis(run.Elapsed())
	return tr, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
