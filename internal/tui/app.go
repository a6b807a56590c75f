package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/splitflap/internal/effects"
	"github.com/san-kum/splitflap/internal/feed"
	"github.com/san-kum/splitflap/internal/story"
	"github.com/san-kum/splitflap/internal/telemetry"
	"github.com/san-kum/splitflap/internal/viz"
)

const (
	frameInterval = 16 * time.Millisecond
	feedTimeout   = 15 * time.Second
	enticePeriod  = 2 * time.Second
)

type Options struct {
	Session *story.Session
	Feed    *feed.Loader
	Styles  viz.Styles
	Handle  string
	// FeedStyle is the glamour style for the feed, e.g. "dark".
	FeedStyle string
	// GlowThreshold is the glow reach around the continue button, in cells.
	GlowThreshold float64
	Parallax      float64
	Logger        *log.Logger
}

type tickMsg time.Time

type feedMsg struct {
	content string
	err     error
}

// Model is the bubbletea model of the landing scene. All sequencing lives
// in the session; the model advances its clock every frame and draws
// whatever the session says is visible.
type Model struct {
	sess   *story.Session
	loader *feed.Loader
	styles viz.Styles
	log    *log.Logger
	keys   keyMap
	help   help.Model

	spinner  spinner.Model
	viewport viewport.Model

	handle        string
	feedStyle     string
	glowThreshold float64
	parallax      float64

	started time.Time
	now     time.Time
	loaded  bool

	feedContent string
	feedLoading bool
	feedWanted  bool

	pointerX, pointerY int
	pointerSeen        bool
	glow               effects.Glow
	smooth             *effects.Smoother

	scrollY  int
	bgOffset int

	width  int
	height int
}

func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.Discard()
	}
	threshold := opts.GlowThreshold
	if threshold <= 0 {
		threshold = 8
	}
	now := time.Now()
	m := &Model{
		sess:          opts.Session,
		loader:        opts.Feed,
		styles:        opts.Styles,
		log:           logger,
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(opts.Styles.Subtle)),
		viewport:      viewport.New(60, 16),
		handle:        opts.Handle,
		feedStyle:     opts.FeedStyle,
		glowThreshold: threshold,
		parallax:      opts.Parallax,
		started:       now,
		now:           now,
		smooth:        effects.NewSmoother(int(time.Second / frameInterval)),
		width:         80,
		height:        24,
	}
	m.sess.SetHooks(story.Hooks{
		OnTransition: func(from, to story.State) {
			m.log.Debug("scene", "from", from, "to", to)
		},
		OnFeed: func(visible bool) {
			if visible {
				m.feedWanted = true
			}
		},
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if !m.loaded {
			m.loaded = true
			m.sess.AssetsLoaded(nil)
		}
		return m, m.pendingFeed()

	case tickMsg:
		m.advance(time.Time(msg))
		return m, tea.Batch(tick(), m.pendingFeed())

	case spinner.TickMsg:
		if m.loaded && !m.feedLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case feedMsg:
		m.feedLoading = false
		if msg.err != nil {
			m.log.Error("feed", "err", msg.err)
			m.feedContent = ""
			m.viewport.SetContent(m.styles.Subtle.Render(feed.Unavailable))
			return m, nil
		}
		m.feedContent = msg.content
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) advance(t time.Time) {
	if t.Before(m.now) {
		return
	}
	m.now = t
	m.sess.Advance(t.Sub(m.started))

	target := 0.0
	if m.buttonShown() && m.pointerSeen {
		if r, ok := m.buttonRect(); ok {
			m.glow = effects.EdgeGlow(r, float64(m.pointerX), float64(m.pointerY), m.glowThreshold)
			target = m.glow.Intensity
		}
	}
	m.smooth.Update(target)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.sess.FeedVisible() {
		if key.Matches(msg, m.keys.Close) {
			m.sess.CloseFeed()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Continue):
		m.activate()
	case key.Matches(msg, m.keys.Feed):
		m.sess.ReopenFeed()
	}
	return m, m.pendingFeed()
}

// activate is what enter, space and a click do: open the envelope, or
// continue once the body has settled.
func (m *Model) activate() {
	switch {
	case m.sess.State() == story.Ready:
		m.sess.Open()
	case m.sess.Animating():
		// keys are ignored until the body settles
	default:
		if m.sess.Continue() {
			m.log.Info("continue", "state", m.sess.State())
		}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	m.pointerX, m.pointerY, m.pointerSeen = msg.X, msg.Y, true

	if m.sess.FeedVisible() {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(1)
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.sess.State() == story.Ready {
			m.sess.Open()
			break
		}
		if r, ok := m.buttonRect(); ok && m.buttonShown() && inside(r, msg.X, msg.Y) {
			m.activate()
		}
	}
	return m.pendingFeed()
}

// scroll moves the virtual page by one braille row and recomputes the
// backdrop offset. Past the landing the offset holds.
func (m *Model) scroll(delta int) {
	m.scrollY = max(0, m.scrollY+delta)
	landing := float64(m.height * 4)
	if bg, _, ok := effects.Parallax(float64(m.scrollY), landing, m.parallax); ok {
		m.bgOffset = int(bg)
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	fw, fh := m.feedSize()
	m.viewport.Width = fw
	m.viewport.Height = fh
	if m.feedContent != "" {
		// rewrap for the new width
		m.feedContent = ""
		if m.sess.FeedVisible() {
			m.feedWanted = true
		}
	}
}

// pendingFeed starts a feed load if the session just showed the feed and
// no content is cached yet.
func (m *Model) pendingFeed() tea.Cmd {
	if !m.feedWanted {
		return nil
	}
	m.feedWanted = false
	if m.feedContent != "" || m.feedLoading || m.loader == nil {
		return nil
	}
	m.feedLoading = true
	m.viewport.SetContent("")
	return tea.Batch(m.spinner.Tick, loadFeed(m.loader, m.viewport.Width, m.feedStyle))
}

func loadFeed(loader *feed.Loader, width int, style string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), feedTimeout)
		defer cancel()
		md, err := loader.Load(ctx)
		if err != nil {
			return feedMsg{err: err}
		}
		out, err := feed.Render(md, width, style)
		return feedMsg{content: out, err: err}
	}
}

func (m *Model) buttonShown() bool {
	return m.sess.ContinueVisible() && m.sess.State() == story.Complete
}

func inside(r effects.Rect, x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.X && fx < r.X+r.W && fy >= r.Y && fy < r.Y+r.H
}
