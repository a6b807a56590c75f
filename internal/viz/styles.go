package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Theme Theme

	Letter    lipgloss.Style
	Meta      lipgloss.Style
	MetaLabel lipgloss.Style
	Body      lipgloss.Style
	Bold      lipgloss.Style
	Flipping  lipgloss.Style
	Cursor    lipgloss.Style
	Signature lipgloss.Style
	Button    lipgloss.Style
	Envelope  lipgloss.Style
	Feed      lipgloss.Style
	Backdrop  lipgloss.Style
	Subtle    lipgloss.Style
	KeyHint   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Letter: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Background(t.Paper).
			Padding(1, 3),
		Meta:      lipgloss.NewStyle().Foreground(t.Ink),
		MetaLabel: lipgloss.NewStyle().Foreground(t.Muted),
		Body:      lipgloss.NewStyle().Foreground(t.Ink),
		Bold:      lipgloss.NewStyle().Foreground(t.Ink).Bold(true),
		Flipping:  lipgloss.NewStyle().Foreground(t.Flap),
		Cursor:    lipgloss.NewStyle().Foreground(t.Accent).Underline(true),
		Signature: lipgloss.NewStyle().Foreground(t.Accent).Italic(true),
		Button: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.Ink).
			Padding(0, 2),
		Envelope: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Foreground(t.Ink).
			Padding(0, 2),
		Feed: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
		Backdrop: lipgloss.NewStyle().Foreground(t.Backdrop),
		Subtle:   lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// GlowButton tints the button border toward the theme's glow color by
// intensity in [0,1].
func (s Styles) GlowButton(intensity float64) lipgloss.Style {
	if intensity <= 0 {
		return s.Button
	}
	return s.Button.BorderForeground(Blend(s.Theme.Border, s.Theme.Glow, intensity))
}

// Blend mixes two hex colors linearly in RGB. t is clamped to [0,1].
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return from
	}
	t = max(0, min(1, t))
	return lipgloss.Color(a.BlendRgb(b, t).Clamped().Hex())
}

// GradientText colors each rune of text on a gradient between two colors.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(Blend(from, to, t)).Render(string(r)))
	}
	return b.String()
}

// Prismatic renders text with a rainbow sweep. phase in [0,1) rotates the
// hues, so successive frames make the colors travel along the text.
func Prismatic(text string, phase float64) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		hue := (phase + float64(i)/float64(max(len(runes), 1))) * 360
		for hue >= 360 {
			hue -= 360
		}
		c := colorful.Hsv(hue, 0.55, 1).Clamped().Hex()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(string(r)))
	}
	return b.String()
}
