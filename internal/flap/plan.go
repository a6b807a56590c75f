package flap

import "time"

// Entry is one nominal settle in a Schedule.
type Entry struct {
	Line  int
	Index int
	Char  rune
	Role  Role
	At    time.Duration
	Delay time.Duration
}

// Schedule is the nominal timeline of a run, computed without running it.
// The per-letter flip policy adds a random extra flip per letter at run
// time; the plan assumes none.
type Schedule struct {
	PerChar   time.Duration
	Entries   []Entry
	LineEnds  []time.Duration
	SettleSum time.Duration
	Total     time.Duration
}

func Plan(lines []Line, opts Options) Schedule {
	s := Schedule{PerChar: PerChar(lines, opts.Budget)}
	var t time.Duration
	for li, l := range lines {
		t += opts.leadIn()
		for i, c := range Cells(l.Text) {
			if c.Role == Letter && opts.flipsPerLetter() {
				t += 2 * opts.FlipInterval * time.Duration(opts.CharsPerFlip)
			}
			d := opts.delay(s.PerChar, c.Role)
			s.Entries = append(s.Entries, Entry{Line: li, Index: i, Char: c.Target, Role: c.Role, At: t, Delay: d})
			s.SettleSum += d
			t += d
		}
		s.LineEnds = append(s.LineEnds, t)
	}
	s.Total = t
	return s
}

// Cumulative returns the settle times in milliseconds, for plotting.
func (s Schedule) Cumulative() []float64 {
	out := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = float64(e.At) / float64(time.Millisecond)
	}
	return out
}
