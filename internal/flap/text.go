package flap

import (
	"regexp"
	"strings"
)

// Newline marker spellings accepted in letter text. EscapedNewline is the
// two-character sequence backslash, n.
const (
	NewlineToken   = "|NEWLINE|"
	NewlineEntity  = "&#10;"
	EscapedNewline = `\n`
	BoldMarker     = "**"
)

// NBSP is the glyph shown for space cells while a line animates.
const NBSP = '\u00a0'

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	newlineRe   = regexp.MustCompile(regexp.QuoteMeta(NewlineToken) + `|` + regexp.QuoteMeta(NewlineEntity) + `|` + regexp.QuoteMeta(EscapedNewline))
	punctuation = ".,!?'"
)

// Role is the rendering role of a character cell.
type Role int

const (
	Letter Role = iota
	Space
	Punct
)

func (r Role) String() string {
	switch r {
	case Space:
		return "space"
	case Punct:
		return "punct"
	default:
		return "letter"
	}
}

// Classify returns the role of r. Anything that is not a space or one of
// the fixed punctuation marks animates as a letter.
func Classify(r rune) Role {
	switch {
	case r == ' ':
		return Space
	case strings.ContainsRune(punctuation, r):
		return Punct
	default:
		return Letter
	}
}

// Clean strips bold markers and collapses every newline marker to a single
// space. The result sizes the animated line; it is never shown once the
// line has settled.
func Clean(text string) string {
	text = strings.ReplaceAll(text, BoldMarker, "")
	text = strings.ReplaceAll(text, NewlineToken, " ")
	text = strings.ReplaceAll(text, NewlineEntity, " ")
	return strings.ReplaceAll(text, EscapedNewline, " ")
}

// CellCount is the number of animated cells for text.
func CellCount(text string) int {
	return len([]rune(Clean(text)))
}

// FormatHTML renders the original text with bold pairs as <strong> and
// every newline marker as <br>. Text is authored content and is not
// escaped.
func FormatHTML(text string) string {
	out := boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, NewlineToken, "<br>")
	out = strings.ReplaceAll(out, NewlineEntity, "<br>")
	return strings.ReplaceAll(out, EscapedNewline, "<br>")
}

// Segment is one run of settled rich text.
type Segment struct {
	Text  string
	Bold  bool
	Break bool
}

// Rich is the post-processed form of a line for terminal rendering.
type Rich []Segment

// Format splits text into plain, bold and break segments. Unpaired
// markers pass through verbatim.
func Format(text string) Rich {
	var out Rich
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(text, -1) {
		out = appendBreaks(out, text[last:m[0]], false)
		out = appendBreaks(out, text[m[2]:m[3]], true)
		last = m[1]
	}
	return appendBreaks(out, text[last:], false)
}

func appendBreaks(out Rich, s string, bold bool) Rich {
	last := 0
	for _, m := range newlineRe.FindAllStringIndex(s, -1) {
		if m[0] > last {
			out = append(out, Segment{Text: s[last:m[0]], Bold: bold})
		}
		out = append(out, Segment{Break: true})
		last = m[1]
	}
	if last < len(s) {
		out = append(out, Segment{Text: s[last:], Bold: bold})
	}
	return out
}

// Plain returns the rich text with breaks as newlines and no emphasis.
func (r Rich) Plain() string {
	var b strings.Builder
	for _, seg := range r {
		if seg.Break {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
