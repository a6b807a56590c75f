package flap

// Line is one line of letter text. Signature only affects which container
// shows the line.
type Line struct {
	Text      string
	Signature bool
}

// Cell is one displayed character of an animating line.
type Cell struct {
	Target  rune
	Glyph   rune
	Role    Role
	Settled bool
	Created bool
}

// Cells sizes a line from its cleaned text. Cells start uncreated; the
// animator materializes them on first touch.
func Cells(text string) []Cell {
	clean := []rune(Clean(text))
	cells := make([]Cell, len(clean))
	for i, r := range clean {
		cells[i] = Cell{Target: r, Role: Classify(r)}
	}
	return cells
}

// Display is the rune a renderer should draw for the cell.
func (c Cell) Display() rune {
	if !c.Created {
		return 0
	}
	if c.Role == Space {
		return NBSP
	}
	return c.Glyph
}
