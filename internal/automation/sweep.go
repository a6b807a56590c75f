package automation

import (
	"fmt"
	"time"

	"github.com/san-kum/splitflap/internal/config"
	"github.com/san-kum/splitflap/internal/flap"
)

// Sweep varies one flap setting across a range and plans the letter at
// each value.
type Sweep struct {
	Param    string
	Min, Max float64
	Steps    int
}

type SweepResult struct {
	Value     float64
	PerChar   time.Duration
	SettleSum time.Duration
	Total     time.Duration
}

var sweepable = map[string]func(*config.FlapConfig, float64){
	"duration_ms":      func(f *config.FlapConfig, v float64) { f.DurationMS = int(v) },
	"flip_interval_ms": func(f *config.FlapConfig, v float64) { f.FlipIntervalMS = int(v) },
	"lookahead":        func(f *config.FlapConfig, v float64) { f.Lookahead = int(v) },
	"chars_per_flip":   func(f *config.FlapConfig, v float64) { f.CharsPerFlip = int(v) },
	"space_factor":     func(f *config.FlapConfig, v float64) { f.SpaceFactor = v },
	"punct_factor":     func(f *config.FlapConfig, v float64) { f.PunctFactor = v },
	"lead_in_flips":    func(f *config.FlapConfig, v float64) { f.LeadInFlips = int(v) },
}

func SweepParams() []string {
	return []string{"duration_ms", "flip_interval_ms", "lookahead", "chars_per_flip", "space_factor", "punct_factor", "lead_in_flips"}
}

func RunSweep(base config.FlapConfig, lines []flap.Line, sw Sweep) ([]SweepResult, error) {
	set, ok := sweepable[sw.Param]
	if !ok {
		return nil, fmt.Errorf("automation: cannot sweep %q (available: %v)", sw.Param, SweepParams())
	}
	if sw.Steps < 2 {
		return nil, fmt.Errorf("automation: sweep needs at least 2 steps, got %d", sw.Steps)
	}

	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		v := sw.Min + float64(i)*step
		fc := base
		set(&fc, v)
		opts := fc.Options()
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("automation: %s=%v: %w", sw.Param, v, err)
		}
		p := flap.Plan(lines, opts)
		results = append(results, SweepResult{Value: v, PerChar: p.PerChar, SettleSum: p.SettleSum, Total: p.Total})
	}
	return results, nil
}
