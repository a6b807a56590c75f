package flap

import (
	"fmt"
	"time"
)

// FlipGlyphs is the alphabet scrambling letters cycle through.
const FlipGlyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Options tunes one animator. The zero value of Glyphs means FlipGlyphs.
type Options struct {
	// Budget is the wall-clock settle time for all lines combined.
	Budget time.Duration
	// FlipInterval is the delay between scramble updates.
	FlipInterval time.Duration
	// Lookahead is how many cells past the cursor scramble while the
	// cursor settles. Zero disables the lookahead ticker.
	Lookahead int
	// CharsPerFlip is the number of flips the current letter shows
	// before settling when Lookahead is zero.
	CharsPerFlip int
	SpaceFactor  float64
	PunctFactor  float64
	// LeadInFlips delays each line's first settle by this many flip
	// intervals.
	LeadInFlips int
	Glyphs      string
}

// DefaultOptions matches the latest revision of the letter.
func DefaultOptions() Options {
	return Options{
		Budget:       2425 * time.Millisecond,
		FlipInterval: time.Millisecond,
		Lookahead:    7,
		CharsPerFlip: 8,
		SpaceFactor:  1,
		PunctFactor:  1,
		LeadInFlips:  3,
		Glyphs:       FlipGlyphs,
	}
}

func (o Options) Validate() error {
	if o.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative, got %v", ErrInvalidOptions, o.Budget)
	}
	if o.Lookahead < 0 {
		return fmt.Errorf("%w: lookahead must not be negative, got %d", ErrInvalidOptions, o.Lookahead)
	}
	if o.CharsPerFlip < 0 {
		return fmt.Errorf("%w: chars per flip must not be negative, got %d", ErrInvalidOptions, o.CharsPerFlip)
	}
	if (o.Lookahead > 0 || o.CharsPerFlip > 0) && o.FlipInterval <= 0 {
		return fmt.Errorf("%w: flip interval must be positive when flipping", ErrInvalidOptions)
	}
	if o.SpaceFactor < 0 || o.PunctFactor < 0 {
		return fmt.Errorf("%w: delay factors must not be negative", ErrInvalidOptions)
	}
	if o.LeadInFlips < 0 {
		return fmt.Errorf("%w: lead-in must not be negative", ErrInvalidOptions)
	}
	return nil
}

func (o Options) glyphs() []rune {
	if o.Glyphs == "" {
		return []rune(FlipGlyphs)
	}
	return []rune(o.Glyphs)
}

func (o Options) leadIn() time.Duration {
	return time.Duration(o.LeadInFlips) * o.FlipInterval
}

// flipsPerLetter reports whether the current-letter flip policy is on.
func (o Options) flipsPerLetter() bool {
	return o.Lookahead == 0 && o.CharsPerFlip > 0
}

func (o Options) delay(perChar time.Duration, role Role) time.Duration {
	switch role {
	case Space:
		return time.Duration(float64(perChar) * o.SpaceFactor)
	case Punct:
		return time.Duration(float64(perChar) * o.PunctFactor)
	default:
		return perChar
	}
}

// PerChar is the global settle spacing: the budget divided by the cleaned
// character count of every line. It is not recomputed per line.
func PerChar(lines []Line, budget time.Duration) time.Duration {
	total := 0
	for _, l := range lines {
		total += CellCount(l.Text)
	}
	if total == 0 {
		return 0
	}
	return budget / time.Duration(total)
}
