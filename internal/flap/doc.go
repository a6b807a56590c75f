// Package flap implements the split-flap text reveal.
//
// A run takes an ordered list of lines and settles them left to right,
// one cell at a time, while unsettled letters cycle through random
// glyphs. The settle spacing is global: the total budget divided by the
// cleaned character count of every line, so a body always takes about the
// same wall-clock time however its text is split across lines.
//
// # Scheduling
//
// The animator never sleeps. Every delay is a timer on a
// [sched.Scheduler], so the same code runs under a real frame tick and
// under a virtual clock in tests.
//
// # Formatting
//
// Letter text may carry **bold** pairs and newline markers. They are
// stripped while a line animates ([Clean]) and restored once it settles
// ([Format], [FormatHTML]).
package flap
