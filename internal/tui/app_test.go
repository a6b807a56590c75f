package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/splitflap/internal/config"
	"github.com/san-kum/splitflap/internal/feed"
	"github.com/san-kum/splitflap/internal/sched"
	"github.com/san-kum/splitflap/internal/story"
	"github.com/san-kum/splitflap/internal/viz"
)

type failingSource struct{}

func (failingSource) Fetch(context.Context) (string, error) {
	return "", errors.New("offline")
}

func newTestModel(t *testing.T, src feed.Source) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Letter.Lines = []string{"He**llo**"}
	cfg.Letter.Signature = "Bye"
	cfg.Flap.DurationMS = 100
	cfg.Story.EnticeDelayMS = 1000

	sess, err := story.New(cfg, sched.New(), rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if src == nil {
		src = feed.StaticSource("# Timeline\n\nfirst post")
	}
	return New(Options{
		Session:   sess,
		Feed:      feed.NewLoader(src),
		Styles:    viz.NewStyles(viz.ThemeMidnight),
		Handle:    "me",
		FeedStyle: "notty",
		Parallax:  0.03,
	})
}

func sized(t *testing.T, src feed.Source) *Model {
	m := newTestModel(t, src)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func tickAt(m *Model, d time.Duration) tea.Cmd {
	_, cmd := m.Update(tickMsg(m.started.Add(d)))
	return cmd
}

func press(m *Model, k tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	feedKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}
	quitKey  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

// settled opens the letter and runs the clock past the continue delay.
func settled(t *testing.T, src feed.Source) *Model {
	m := sized(t, src)
	press(m, enterKey)
	tickAt(m, 2*time.Second)
	if m.sess.State() != story.Complete {
		t.Fatalf("expected complete, got %s", m.sess.State())
	}
	return m
}

func TestLoadingUntilSized(t *testing.T) {
	m := newTestModel(t, nil)
	if !strings.Contains(m.View(), "loading") {
		t.Error("expected loading screen before the first resize")
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.sess.State() != story.Ready {
		t.Errorf("expected ready, got %s", m.sess.State())
	}
	if !strings.Contains(m.View(), "new message") {
		t.Error("expected envelope once sized")
	}
}

func TestEnterOpensAndSettles(t *testing.T) {
	m := sized(t, nil)
	press(m, enterKey)
	if m.sess.State() != story.ModalShown {
		t.Fatalf("expected modal, got %s", m.sess.State())
	}
	tickAt(m, 2*time.Second)

	view := m.View()
	for _, want := range []string{"From", "Hello", "Bye", "Continue"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestContinueIgnoredWhileAnimating(t *testing.T) {
	m := sized(t, nil)
	press(m, enterKey)
	tickAt(m, 750*time.Millisecond)
	if m.sess.State() != story.BodyAnimating {
		t.Fatalf("expected body animating, got %s", m.sess.State())
	}
	press(m, enterKey)
	if m.sess.State() != story.BodyAnimating {
		t.Errorf("expected enter to be ignored, got %s", m.sess.State())
	}
}

func TestContinueOpensFeed(t *testing.T) {
	m := settled(t, nil)
	press(m, enterKey)
	if m.sess.State() != story.Dismissed {
		t.Fatalf("expected dismissed, got %s", m.sess.State())
	}
	tickAt(m, 2600*time.Millisecond)
	if !m.sess.FeedVisible() {
		t.Fatal("expected feed after the fade")
	}
	if !m.feedLoading {
		t.Fatal("expected feed load to start")
	}
	if !strings.Contains(m.View(), "loading timeline") {
		t.Error("expected feed spinner while loading")
	}

	m.Update(loadFeed(m.loader, m.viewport.Width, "notty")())
	if !strings.Contains(m.View(), "first post") {
		t.Error("expected rendered feed")
	}

	press(m, escKey)
	if m.sess.FeedVisible() {
		t.Error("expected esc to close the feed")
	}
	if cmd := press(m, feedKey); cmd != nil {
		t.Error("expected cached feed on reopen")
	}
	if !m.sess.FeedVisible() || m.feedLoading {
		t.Error("expected feed reopened without loading")
	}
}

func TestFeedFailureShowsFallback(t *testing.T) {
	m := settled(t, failingSource{})
	press(m, enterKey)
	tickAt(m, 2600*time.Millisecond)

	m.Update(loadFeed(m.loader, m.viewport.Width, "notty")())
	if !strings.Contains(m.View(), "Unable to load timeline") {
		t.Error("expected fallback message")
	}

	press(m, escKey)
	if cmd := press(m, feedKey); cmd == nil {
		t.Error("expected a retry after a failed load")
	}
}

func TestMouseClickContinues(t *testing.T) {
	m := settled(t, nil)
	r, ok := m.buttonRect()
	if !ok {
		t.Fatal("expected continue button")
	}
	m.Update(tea.MouseMsg{
		X:      int(r.X + r.W/2),
		Y:      int(r.Y + 1),
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if m.sess.State() != story.Dismissed {
		t.Errorf("expected click to continue, got %s", m.sess.State())
	}
}

func TestClickOutsideButtonIgnored(t *testing.T) {
	m := settled(t, nil)
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.sess.State() != story.Complete {
		t.Errorf("expected state unchanged, got %s", m.sess.State())
	}
}

func TestGlowFollowsPointer(t *testing.T) {
	m := settled(t, nil)
	r, _ := m.buttonRect()
	m.Update(tea.MouseMsg{X: int(r.X), Y: int(r.Y + 1), Action: tea.MouseActionMotion})
	tickAt(m, 2016*time.Millisecond)

	if m.glow.Intensity != 1 || !m.glow.Active {
		t.Errorf("expected full glow on the border, got %+v", m.glow)
	}
	if m.smooth.Value() <= 0 {
		t.Errorf("expected smoothed glow to rise, got %v", m.smooth.Value())
	}
}

func TestEnticeKeepsLabel(t *testing.T) {
	m := settled(t, nil)
	tickAt(m, 2500*time.Millisecond)
	if !m.sess.Enticing() {
		t.Fatal("expected entice after the delay")
	}
	if !strings.Contains(m.View(), "Continue") {
		t.Error("expected label during entice")
	}
}

func TestWheelMovesBackdrop(t *testing.T) {
	m := sized(t, nil)
	for i := 0; i < 10; i++ {
		m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	if m.bgOffset <= 0 {
		t.Fatalf("expected backdrop offset, got %d", m.bgOffset)
	}
	for i := 0; i < 20; i++ {
		m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	}
	if m.scrollY != 0 || m.bgOffset != 0 {
		t.Errorf("expected scroll back at top, got %d/%d", m.scrollY, m.bgOffset)
	}
}

func TestWheelPastLandingHolds(t *testing.T) {
	m := sized(t, nil)
	landing := m.height * 4
	for i := 0; i < landing; i++ {
		m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	held := m.bgOffset
	for i := 0; i < 5; i++ {
		m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	}
	if m.bgOffset != held {
		t.Errorf("expected offset to hold past the landing, got %d want %d", m.bgOffset, held)
	}
}

func TestQuitCancels(t *testing.T) {
	m := sized(t, nil)
	press(m, enterKey)
	tickAt(m, 750*time.Millisecond)
	cmd := press(m, quitKey)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.sess.State() != story.Cancelled {
		t.Errorf("expected cancelled, got %s", m.sess.State())
	}
	if m.sess.Scheduler().Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.sess.Scheduler().Pending())
	}
}

func TestOverlay(t *testing.T) {
	rows := []string{"⠁⠁⠁⠁⠁", "⠁⠁⠁⠁⠁", "⠁⠁⠁⠁⠁"}
	out := overlay(rows, "ab\nc", 1, 1, lipgloss.NewStyle())
	want := []string{"⠁⠁⠁⠁⠁", "⠁ab⠁⠁", "⠁c ⠁⠁"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], out[i])
		}
	}
}
