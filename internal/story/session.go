package story

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/splitflap/internal/config"
	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/sched"
)

// State is a step of the reveal sequence.
type State int

const (
	Loading State = iota
	Ready
	ModalShown
	HeaderShown
	BodyAnimating
	Complete
	Dismissed
	// Cancelled ends a reveal that was stopped before it completed.
	Cancelled
)

var stateNames = [...]string{"loading", "ready", "modal", "header", "body", "complete", "dismissed", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Hooks observe a session. Every field is optional.
type Hooks struct {
	OnTransition func(from, to State)
	OnFeed       func(visible bool)
}

// Session owns everything one playthrough needs: configuration, the
// scheduler, the animator and the visibility flags the renderer reads.
type Session struct {
	cfg   *config.Config
	sched *sched.Scheduler
	anim  *flap.Animator
	log   *log.Logger
	hooks Hooks
	lines []flap.Line

	state           State
	expanding       bool
	continueVisible bool
	enticing        bool
	feedVisible     bool
	stamp           string

	run    *flap.Run
	timers []*sched.Timer
}

func New(cfg *config.Config, s *sched.Scheduler, rng *rand.Rand, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	anim, err := flap.New(s, cfg.Flap.Options(), rng)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		cfg:   cfg,
		sched: s,
		anim:  anim,
		log:   logger,
		lines: cfg.Letter.FlapLines(),
		stamp: Timestamp(time.Now()),
	}
	anim.SetHooks(flap.Hooks{
		OnLineStart: func(line int, l flap.Line) {
			logger.Debug("line started", "line", line, "signature", l.Signature, "cells", flap.CellCount(l.Text))
		},
		OnLineDone: func(line int, _ flap.Rich) {
			logger.Debug("line settled", "line", line, "at", s.Now())
		},
		OnComplete: func(id string) {
			logger.Info("body settled", "run", id, "at", s.Now())
		},
	})
	return sess, nil
}

func (s *Session) SetHooks(h Hooks) { s.hooks = h }

func (s *Session) Config() *config.Config      { return s.cfg }
func (s *Session) Scheduler() *sched.Scheduler { return s.sched }
func (s *Session) State() State                { return s.state }
func (s *Session) Lines() []flap.Line          { return s.lines }
func (s *Session) Run() *flap.Run              { return s.run }
func (s *Session) Timestamp() string           { return s.stamp }
func (s *Session) Expanding() bool             { return s.expanding }
func (s *Session) ContinueVisible() bool       { return s.continueVisible }
func (s *Session) Enticing() bool              { return s.enticing }
func (s *Session) FeedVisible() bool           { return s.feedVisible }

// SetTimestamp pins the letter timestamp.
func (s *Session) SetTimestamp(t time.Time) { s.stamp = Timestamp(t) }

// LetterVisible reports whether the letter modal is on screen.
func (s *Session) LetterVisible() bool {
	return s.state >= ModalShown && s.state < Dismissed
}

func (s *Session) HeaderVisible() bool {
	return s.state >= HeaderShown && s.state < Dismissed
}

// SignatureVisible reports whether the signature line has started.
func (s *Session) SignatureVisible() bool {
	if s.run == nil {
		return false
	}
	for _, lv := range s.run.Snapshot() {
		if lv.Signature && lv.Started {
			return true
		}
	}
	return false
}

// Animating mirrors the running flag the keyboard handlers check.
func (s *Session) Animating() bool { return s.state == BodyAnimating }

// Advance moves the session clock to now and fires everything due.
func (s *Session) Advance(now time.Duration) int {
	return s.sched.AdvanceTo(now)
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	s.log.Debug("transition", "from", from, "to", to, "at", s.sched.Now())
	if h := s.hooks.OnTransition; h != nil {
		h(from, to)
	}
}

func (s *Session) after(d time.Duration, fn func()) {
	s.timers = append(s.timers, s.sched.After(d, fn))
}

// AssetsLoaded ends the loading screen. A failed load is logged and the
// sequence carries on without the asset.
func (s *Session) AssetsLoaded(err error) {
	if s.state != Loading {
		return
	}
	if err != nil {
		s.log.Error("failed to load background", "err", err)
	}
	s.transition(Ready)
	if s.cfg.Story.AutoOpen {
		s.after(s.cfg.Story.ModalDelay(), func() { s.open(false) })
	}
}

// Open expands the letter from the envelope. It only applies while the
// envelope is waiting.
func (s *Session) Open() bool {
	if s.state != Ready {
		return false
	}
	s.open(true)
	return true
}

func (s *Session) open(expand bool) {
	if s.state != Ready {
		return
	}
	s.transition(ModalShown)
	if expand {
		s.expanding = true
		s.after(s.cfg.Story.Expand(), func() { s.expanding = false })
	}
	s.after(s.cfg.Story.HeaderDelay(), func() {
		s.transition(HeaderShown)
		s.after(s.cfg.Story.BodyDelay(), s.startBody)
	})
}

func (s *Session) startBody() {
	s.transition(BodyAnimating)
	run, err := s.anim.Animate(s.lines, s.bodyComplete)
	if err != nil {
		s.log.Error("animate", "err", err)
		return
	}
	s.run = run
	s.log.Info("body animating", "run", run.ID, "lines", len(s.lines), "per_char", run.PerChar())
}

func (s *Session) bodyComplete() {
	s.transition(Complete)
	s.after(s.cfg.Story.ContinueDelay(), func() {
		s.continueVisible = true
		s.after(s.cfg.Story.EnticeDelay(), func() {
			if s.state != Dismissed {
				s.enticing = true
			}
		})
	})
}

// Continue is the call-to-action. The first accepted call hides the
// letter and opens the feed after the fade; later calls reopen the feed.
func (s *Session) Continue() bool {
	if s.feedVisible {
		return false
	}
	switch s.state {
	case Complete:
		s.transition(Dismissed)
		s.enticing = false
		s.after(s.cfg.Story.FeedDelay(), s.showFeed)
		return true
	case Dismissed:
		s.showFeed()
		return true
	default:
		return false
	}
}

// ReopenFeed brings the feed back after the letter is gone.
func (s *Session) ReopenFeed() bool {
	if s.state != Dismissed || s.feedVisible {
		return false
	}
	s.showFeed()
	return true
}

func (s *Session) CloseFeed() bool {
	if !s.feedVisible {
		return false
	}
	s.feedVisible = false
	if h := s.hooks.OnFeed; h != nil {
		h(false)
	}
	return true
}

func (s *Session) showFeed() {
	if s.feedVisible {
		return
	}
	s.feedVisible = true
	if h := s.hooks.OnFeed; h != nil {
		h(true)
	}
}

// Cancel stops the body run and every pending sequence step. A reveal
// still in progress ends in Cancelled; a finished letter keeps its state.
func (s *Session) Cancel() {
	if s.run != nil && s.run.Cancel() {
		s.log.Info("body cancelled", "run", s.run.ID)
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.expanding = false
	switch s.state {
	case ModalShown, HeaderShown, BodyAnimating:
		s.transition(Cancelled)
	}
}

// Timestamp formats t the way the letter header shows it: numeric en-US
// date and a 12-hour clock with seconds.
func Timestamp(t time.Time) string {
	return t.Format("1/2/2006, 3:04:05 PM")
}
