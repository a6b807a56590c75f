package config

import (
	"fmt"
	"sort"
)

// Preset is one tuning of the reveal. The four presets consolidate the
// revisions the letter went through.
type Preset struct {
	Description string
	AutoOpen    bool
	EnticeMS    int
	Flap        FlapConfig
}

var Presets = map[string]Preset{
	"classic": {
		Description: "per-letter flips, short pauses on spaces and punctuation, opens by itself",
		AutoOpen:    true,
		EnticeMS:    5000,
		Flap: FlapConfig{
			DurationMS: 1200, FlipIntervalMS: 8, Lookahead: 0, CharsPerFlip: 1,
			SpaceFactor: 0.3, PunctFactor: 0.5, LeadInFlips: 0,
		},
	},
	"steady": {
		Description: "narrow lookahead, even pacing",
		EnticeMS:    5000,
		Flap: FlapConfig{
			DurationMS: 1800, FlipIntervalMS: 4, Lookahead: 3, CharsPerFlip: 4,
			SpaceFactor: 1, PunctFactor: 1, LeadInFlips: 3,
		},
	},
	"cascade": {
		Description: "wide lookahead scrambling ahead of the cursor",
		EnticeMS:    6000,
		Flap: FlapConfig{
			DurationMS: 2425, FlipIntervalMS: 1, Lookahead: 7, CharsPerFlip: 8,
			SpaceFactor: 1, PunctFactor: 1, LeadInFlips: 3,
		},
	},
	"swift": {
		Description: "short budget for long letters",
		EnticeMS:    4000,
		Flap: FlapConfig{
			DurationMS: 900, FlipIntervalMS: 1, Lookahead: 4, CharsPerFlip: 8,
			SpaceFactor: 1, PunctFactor: 1, LeadInFlips: 2,
		},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the flap tuning and the preset-specific story
// settings.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	c.Preset = name
	c.Flap = p.Flap
	c.Story.AutoOpen = p.AutoOpen
	c.Story.EnticeDelayMS = p.EnticeMS
	return nil
}
