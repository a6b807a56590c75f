package flap

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/splitflap/internal/sched"
)

// Hooks observe a run. Every field is optional.
type Hooks struct {
	OnLineStart func(line int, l Line)
	OnScramble  func(line, index int, glyph rune)
	OnSettle    func(ev SettleEvent)
	OnLineDone  func(line int, rich Rich)
	OnComplete  func(runID string)
}

// SettleEvent records one cell fixing to its target.
type SettleEvent struct {
	Line  int
	Index int
	Glyph rune
	Role  Role
	At    time.Duration
}

type RunState int

const (
	RunPending RunState = iota
	RunActive
	RunDone
	RunCancelled
)

func (s RunState) String() string {
	switch s {
	case RunActive:
		return "active"
	case RunDone:
		return "done"
	case RunCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Animator reveals letter lines on a scheduler. At most one run is active.
type Animator struct {
	sched  *sched.Scheduler
	opts   Options
	rng    *rand.Rand
	glyphs []rune
	hooks  Hooks
	active *Run
}

func New(s *sched.Scheduler, opts Options, rng *rand.Rand) (*Animator, error) {
	if s == nil {
		return nil, ErrNoScheduler
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Animator{sched: s, opts: opts, rng: rng, glyphs: opts.glyphs()}, nil
}

func (a *Animator) SetHooks(h Hooks) { a.hooks = h }

func (a *Animator) Options() Options { return a.opts }

func (a *Animator) Running() bool { return a.active != nil }

// Active returns the run in progress, or nil.
func (a *Animator) Active() *Run { return a.active }

// Animate starts revealing lines. The run begins on the next scheduler
// tick; onComplete fires exactly once after the last line settles unless
// the run is cancelled first.
func (a *Animator) Animate(lines []Line, onComplete func()) (*Run, error) {
	if a.active != nil {
		return nil, ErrRunning
	}
	r := &Run{
		ID:         uuid.NewString(),
		a:          a,
		lines:      make([]lineState, len(lines)),
		perChar:    PerChar(lines, a.opts.Budget),
		onComplete: onComplete,
		line:       -1,
	}
	for i, l := range lines {
		r.lines[i].Line = l
	}
	a.active = r
	r.settle = a.sched.After(0, func() {
		r.state = RunActive
		r.startedAt = a.sched.Now()
		r.startLine(0)
	})
	return r, nil
}

func (a *Animator) randomGlyph() rune {
	return a.glyphs[a.rng.Intn(len(a.glyphs))]
}

type lineState struct {
	Line
	started bool
	done    bool
	cells   []Cell
	cursor  int
	rich    Rich
}

// Run is one multi-line animation.
type Run struct {
	ID string

	a          *Animator
	lines      []lineState
	perChar    time.Duration
	onComplete func()

	line      int
	state     RunState
	settle    *sched.Timer
	flip      *sched.Timer
	flipsLeft int

	startedAt  time.Duration
	finishedAt time.Duration
}

func (r *Run) State() RunState { return r.state }

// PerChar is the settle spacing this run was sized with.
func (r *Run) PerChar() time.Duration { return r.perChar }

// Elapsed is the virtual time from the first line starting to the last
// line finishing, or to now while the run is active.
func (r *Run) Elapsed() time.Duration {
	switch r.state {
	case RunDone, RunCancelled:
		return r.finishedAt - r.startedAt
	case RunActive:
		return r.a.sched.Now() - r.startedAt
	default:
		return 0
	}
}

// Cancel stops the run. Pending timers are dropped and the completion
// callback never fires. It reports whether the run was still live.
func (r *Run) Cancel() bool {
	if r.state == RunDone || r.state == RunCancelled {
		return false
	}
	r.settle.Stop()
	r.flip.Stop()
	r.state = RunCancelled
	r.finishedAt = r.a.sched.Now()
	if r.a.active == r {
		r.a.active = nil
	}
	return true
}

func (r *Run) startLine(i int) {
	r.line = i
	if i >= len(r.lines) {
		r.finish()
		return
	}
	ls := &r.lines[i]
	ls.started = true
	ls.cells = Cells(ls.Text)
	ls.cursor = 0
	if h := r.a.hooks.OnLineStart; h != nil {
		h(i, ls.Line)
	}
	if !r.live() {
		return
	}
	opts := r.a.opts
	if opts.Lookahead > 0 && len(ls.cells) > 0 {
		r.flip = r.a.sched.Every(opts.FlipInterval, r.scramble)
	}
	r.settle = r.a.sched.After(opts.leadIn(), r.step)
}

func (r *Run) current() *lineState { return &r.lines[r.line] }

// live reports whether the run may still schedule work. Hooks can cancel
// the run, so every callback and every post-hook reschedule checks it.
func (r *Run) live() bool { return r.state == RunActive }

// ensure materializes cell i on first touch.
func (r *Run) ensure(i int) *Cell {
	c := &r.current().cells[i]
	if c.Created {
		return c
	}
	c.Created = true
	switch c.Role {
	case Space:
		c.Glyph = NBSP
	case Punct:
		c.Glyph = c.Target
	default:
		c.Glyph = r.a.randomGlyph()
	}
	return c
}

func (r *Run) step() {
	if !r.live() {
		return
	}
	ls := r.current()
	if ls.cursor >= len(ls.cells) {
		r.finishLine()
		return
	}
	c := r.ensure(ls.cursor)
	if c.Role == Letter && r.a.opts.flipsPerLetter() {
		r.flipsLeft = r.a.opts.CharsPerFlip + r.a.rng.Intn(2)
		r.flipCurrent()
		return
	}
	r.settleCurrent()
}

// flipCurrent shows one random glyph on the cursor cell. Each flip holds
// for two flip intervals.
func (r *Run) flipCurrent() {
	if !r.live() {
		return
	}
	if r.flipsLeft <= 0 {
		r.settleCurrent()
		return
	}
	r.flipsLeft--
	ls := r.current()
	c := &ls.cells[ls.cursor]
	c.Glyph = r.a.randomGlyph()
	if h := r.a.hooks.OnScramble; h != nil {
		h(r.line, ls.cursor, c.Glyph)
	}
	if !r.live() {
		return
	}
	r.settle = r.a.sched.After(2*r.a.opts.FlipInterval, r.flipCurrent)
}

func (r *Run) settleCurrent() {
	ls := r.current()
	c := &ls.cells[ls.cursor]
	if c.Role == Letter {
		c.Glyph = c.Target
	}
	c.Settled = true
	if h := r.a.hooks.OnSettle; h != nil {
		h(SettleEvent{Line: r.line, Index: ls.cursor, Glyph: c.Display(), Role: c.Role, At: r.a.sched.Now()})
	}
	ls.cursor++
	if !r.live() {
		return
	}
	r.settle = r.a.sched.After(r.a.opts.delay(r.perChar, c.Role), r.step)
}

// scramble is the lookahead ticker: every unsettled letter from the
// cursor through the lookahead window gets a random glyph.
func (r *Run) scramble() {
	if !r.live() {
		return
	}
	ls := r.current()
	last := min(ls.cursor+r.a.opts.Lookahead, len(ls.cells)-1)
	for i := ls.cursor; i <= last; i++ {
		c := r.ensure(i)
		if c.Settled || c.Role != Letter {
			continue
		}
		c.Glyph = r.a.randomGlyph()
		if h := r.a.hooks.OnScramble; h != nil {
			h(r.line, i, c.Glyph)
		}
		if !r.live() {
			return
		}
	}
}

func (r *Run) finishLine() {
	r.flip.Stop()
	r.flip = nil
	ls := r.current()
	ls.done = true
	ls.rich = Format(ls.Text)
	if h := r.a.hooks.OnLineDone; h != nil {
		h(r.line, ls.rich)
	}
	if !r.live() {
		return
	}
	r.startLine(r.line + 1)
}

func (r *Run) finish() {
	r.state = RunDone
	r.finishedAt = r.a.sched.Now()
	r.settle = nil
	if r.a.active == r {
		r.a.active = nil
	}
	if h := r.a.hooks.OnComplete; h != nil {
		h(r.ID)
	}
	if r.onComplete != nil {
		r.onComplete()
	}
}

// LineView is a read-only snapshot of one line for rendering.
type LineView struct {
	Text      string
	Signature bool
	Started   bool
	Done      bool
	Cells     []Cell
	Cursor    int
	Rich      Rich
}

// Snapshot copies the state of every line. Lines not yet started have
// no cells.
func (r *Run) Snapshot() []LineView {
	out := make([]LineView, len(r.lines))
	for i, ls := range r.lines {
		out[i] = LineView{
			Text:      ls.Text,
			Signature: ls.Signature,
			Started:   ls.started,
			Done:      ls.done,
			Cursor:    ls.cursor,
			Rich:      ls.rich,
		}
		if ls.cells != nil {
			out[i].Cells = append([]Cell(nil), ls.cells...)
		}
	}
	return out
}

// CurrentLine is the index of the animating line, or -1 before start.
func (r *Run) CurrentLine() int { return r.line }
