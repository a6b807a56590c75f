package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/san-kum/splitflap/internal/effects"
	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/story"
	"github.com/san-kum/splitflap/internal/viz"
)

const (
	continueLabel = "Continue →"
	cursorMark    = "▌"
)

// scene is one frame's foreground block and where it sits on screen.
type scene struct {
	block     string
	x, y      int
	button    effects.Rect
	hasButton bool
}

func (m *Model) View() string {
	if !m.loaded || m.sess.State() == story.Loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.styles.Subtle.Render("loading"))
	}

	sc := m.layout()
	rows := m.backdrop()
	if sc.block != "" {
		rows = overlay(rows, sc.block, sc.x, sc.y, m.styles.Backdrop)
	} else {
		for i, r := range rows {
			rows[i] = m.styles.Backdrop.Render(r)
		}
	}
	return strings.Join(rows, "\n") + "\n" + m.help.View(m.keys)
}

func (m *Model) sceneHeight() int { return max(m.height-1, 1) }

func (m *Model) backdrop() []string {
	c := viz.NewCanvas(m.width, m.sceneHeight())
	viz.DrawBackdrop(c, m.bgOffset)
	return strings.Split(c.String(), "\n")
}

func (m *Model) layout() scene {
	var sc scene
	switch {
	case m.sess.FeedVisible():
		sc.block = m.renderFeed()
	case m.sess.State() == story.Ready:
		sc.block = m.renderEnvelope()
	case m.sess.LetterVisible():
		letter := m.renderLetter()
		sc.block = letter
		if m.buttonShown() {
			lw := lipgloss.Width(letter)
			bw := runewidth.StringWidth(continueLabel) + 6
			left := max((lw-bw)/2, 0)
			btn := indent(m.renderButton(), left)
			sc.block = lipgloss.JoinVertical(lipgloss.Left, letter, "", btn)
			sc.hasButton = true
			sc.button = effects.Rect{X: float64(left), Y: float64(lipgloss.Height(letter) + 1), W: float64(bw), H: 3}
		}
	case m.sess.State() == story.Dismissed:
		sc.block = m.styles.Subtle.Render("f to reopen the feed")
	}
	if sc.block == "" {
		return sc
	}
	sc.x = max((m.width-lipgloss.Width(sc.block))/2, 0)
	sc.y = max((m.sceneHeight()-lipgloss.Height(sc.block))/2, 0)
	sc.button.X += float64(sc.x)
	sc.button.Y += float64(sc.y)
	return sc
}

// buttonRect is the continue button's hit box in screen cells.
func (m *Model) buttonRect() (effects.Rect, bool) {
	sc := m.layout()
	return sc.button, sc.hasButton
}

func (m *Model) letterWidth() int {
	w := min(72, m.width-8)
	if m.sess.Expanding() {
		w = w * 2 / 3
	}
	return max(w, 24)
}

func (m *Model) renderEnvelope() string {
	cfg := m.sess.Config().Letter
	body := strings.Join([]string{
		m.styles.Bold.Render("✉  1 new message"),
		"",
		m.styles.MetaLabel.Render("from ") + m.styles.Meta.Render(cfg.From),
		"",
		m.styles.KeyHint.Render("press enter to open"),
	}, "\n")
	return m.styles.Envelope.Render(body)
}

func (m *Model) renderLetter() string {
	cfg := m.sess.Config().Letter
	width := m.letterWidth()
	inner := width - 6

	var parts []string
	if m.sess.HeaderVisible() {
		parts = append(parts,
			m.styles.MetaLabel.Render("From    ")+m.styles.Meta.Render(cfg.From),
			m.styles.MetaLabel.Render("Subject ")+m.styles.Meta.Render(cfg.Subject),
			m.styles.Subtle.Render(m.sess.Timestamp()),
			"",
		)
	}

	var body, signature []string
	if run := m.sess.Run(); run != nil {
		for _, lv := range run.Snapshot() {
			if !lv.Started {
				continue
			}
			text := renderLine(m.styles, lv, inner)
			if lv.Signature {
				signature = append(signature, text)
			} else {
				body = append(body, text)
			}
		}
	}
	parts = append(parts, body...)
	if m.sess.SignatureVisible() {
		parts = append(parts, "")
		parts = append(parts, signature...)
	}

	return m.styles.Letter.Width(width).Render(strings.Join(parts, "\n"))
}

// renderLine draws a finished line from its formatted segments and a
// running line cell by cell.
func renderLine(st viz.Styles, lv flap.LineView, width int) string {
	base := st.Body
	if lv.Signature {
		base = st.Signature
	}
	if lv.Done {
		var b strings.Builder
		for _, seg := range lv.Rich {
			switch {
			case seg.Break:
				b.WriteString("\n")
			case seg.Bold:
				b.WriteString(st.Bold.Render(seg.Text))
			default:
				b.WriteString(base.Render(seg.Text))
			}
		}
		return wordwrap.String(b.String(), width)
	}

	var b strings.Builder
	for i, c := range lv.Cells {
		r := c.Display()
		if r == 0 {
			if i == lv.Cursor {
				// not materialized yet: mark where the next settle lands
				b.WriteString(st.Cursor.Render(cursorMark))
			}
			continue
		}
		switch {
		case c.Settled:
			b.WriteString(base.Render(string(r)))
		case i == lv.Cursor:
			b.WriteString(st.Cursor.Render(string(r)))
		default:
			b.WriteString(st.Flipping.Render(string(r)))
		}
	}
	return wrap.String(b.String(), width)
}

func (m *Model) renderButton() string {
	style := m.styles.GlowButton(m.smooth.Value())
	if m.glow.Active {
		style = style.Bold(true)
	}
	label := continueLabel
	if m.sess.Enticing() {
		phase := float64(m.now.Sub(m.started)%enticePeriod) / float64(enticePeriod)
		label = viz.Prismatic(continueLabel, phase)
	}
	return style.Render(label)
}

func (m *Model) feedSize() (int, int) {
	w := min(80, m.width-6) - 4
	h := m.sceneHeight() - 6
	return max(w, 20), max(h, 4)
}

func (m *Model) renderFeed() string {
	title := m.styles.Bold.Render("@"+m.handle) + "  " + m.styles.KeyHint.Render("esc to close")
	content := m.viewport.View()
	if m.feedLoading {
		content = m.spinner.View() + " " + m.styles.Subtle.Render("loading timeline")
	}
	return m.styles.Feed.Render(title + "\n\n" + content)
}

func indent(block string, n int) string {
	if n <= 0 {
		return block
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// overlay draws block over the plain backdrop rows with its top-left
// corner at (x, y). Backdrop runes are one cell wide, so they are cut by
// rune index.
func overlay(rows []string, block string, x, y int, bg lipgloss.Style) []string {
	lines := strings.Split(block, "\n")
	bw := lipgloss.Width(block)
	out := make([]string, len(rows))
	for i, row := range rows {
		j := i - y
		if j < 0 || j >= len(lines) {
			out[i] = bg.Render(row)
			continue
		}
		runes := []rune(row)
		left := min(x, len(runes))
		right := min(x+bw, len(runes))
		line := lines[j]
		if pad := bw - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = bg.Render(string(runes[:left])) + line + bg.Render(string(runes[right:]))
	}
	return out
}
