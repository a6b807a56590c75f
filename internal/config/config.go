package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/splitflap/internal/flap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModalDelayMS    = 200
	DefaultHeaderDelayMS   = 300
	DefaultBodyDelayMS     = 400
	DefaultContinueDelayMS = 300
	DefaultEnticeDelayMS   = 6000
	DefaultFeedDelayMS     = 500
	DefaultExpandMS        = 600
	DefaultGlowThreshold   = 8.0
	DefaultParallax        = 0.03
	EnvPrefix              = "SPLITFLAP_"
)

type Config struct {
	Preset string       `yaml:"preset,omitempty"`
	Seed   int64        `yaml:"seed" env:"SEED"`
	Story  StoryConfig  `yaml:"story" envPrefix:"STORY_"`
	Flap   FlapConfig   `yaml:"flap" envPrefix:"FLAP_"`
	Letter LetterConfig `yaml:"letter"`
	Feed   FeedConfig   `yaml:"feed" envPrefix:"FEED_"`
	UI     UIConfig     `yaml:"ui" envPrefix:"UI_"`
}

// StoryConfig holds the reveal sequence delays, in milliseconds.
type StoryConfig struct {
	AutoOpen        bool `yaml:"auto_open" env:"AUTO_OPEN"`
	ModalDelayMS    int  `yaml:"modal_delay_ms" env:"MODAL_DELAY_MS"`
	HeaderDelayMS   int  `yaml:"header_delay_ms" env:"HEADER_DELAY_MS"`
	BodyDelayMS     int  `yaml:"body_delay_ms" env:"BODY_DELAY_MS"`
	ContinueDelayMS int  `yaml:"continue_delay_ms" env:"CONTINUE_DELAY_MS"`
	EnticeDelayMS   int  `yaml:"entice_delay_ms" env:"ENTICE_DELAY_MS"`
	FeedDelayMS     int  `yaml:"feed_delay_ms" env:"FEED_DELAY_MS"`
	ExpandMS        int  `yaml:"expand_ms" env:"EXPAND_MS"`
}

type FlapConfig struct {
	DurationMS     int     `yaml:"duration_ms" env:"DURATION_MS"`
	FlipIntervalMS int     `yaml:"flip_interval_ms" env:"FLIP_INTERVAL_MS"`
	Lookahead      int     `yaml:"lookahead" env:"LOOKAHEAD"`
	CharsPerFlip   int     `yaml:"chars_per_flip" env:"CHARS_PER_FLIP"`
	SpaceFactor    float64 `yaml:"space_factor" env:"SPACE_FACTOR"`
	PunctFactor    float64 `yaml:"punct_factor" env:"PUNCT_FACTOR"`
	LeadInFlips    int     `yaml:"lead_in_flips" env:"LEAD_IN_FLIPS"`
}

// LetterConfig is the letter content. Body lines may use **bold** and the
// |NEWLINE|, &#10; or \n markers. The signature, when set, is always
// rendered last.
type LetterConfig struct {
	From      string   `yaml:"from"`
	Subject   string   `yaml:"subject"`
	Lines     []string `yaml:"lines"`
	Signature string   `yaml:"signature"`
}

type FeedConfig struct {
	Handle string `yaml:"handle" env:"HANDLE"`
	Source string `yaml:"source" env:"SOURCE"`
	Style  string `yaml:"style" env:"STYLE"`
}

type UIConfig struct {
	Theme         string  `yaml:"theme" env:"THEME"`
	Mouse         bool    `yaml:"mouse" env:"MOUSE"`
	GlowThreshold float64 `yaml:"glow_threshold" env:"GLOW_THRESHOLD"`
	Parallax      float64 `yaml:"parallax" env:"PARALLAX"`
	LogPath       string  `yaml:"log_path" env:"LOG_PATH"`
	LogLevel      string  `yaml:"log_level" env:"LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset: "cascade",
		Story: StoryConfig{
			ModalDelayMS:    DefaultModalDelayMS,
			HeaderDelayMS:   DefaultHeaderDelayMS,
			BodyDelayMS:     DefaultBodyDelayMS,
			ContinueDelayMS: DefaultContinueDelayMS,
			EnticeDelayMS:   DefaultEnticeDelayMS,
			FeedDelayMS:     DefaultFeedDelayMS,
			ExpandMS:        DefaultExpandMS,
		},
		Flap: Presets["cascade"].Flap,
		Letter: LetterConfig{
			From:    "studio@splitflap.dev",
			Subject: "A note before you go in",
			Lines: []string{
				"Hi there,",
				"Thanks for stopping by. This page is a **letter**, not a landing page.|NEWLINE|It types itself out, one flap at a time.",
				"When it finishes, press **continue** to see what we have been posting lately.",
			},
			Signature: "See you inside.",
		},
		Feed: FeedConfig{
			Handle: "splitflap",
			Style:  "dark",
		},
		UI: UIConfig{
			Theme:         "midnight",
			Mouse:         true,
			GlowThreshold: DefaultGlowThreshold,
			Parallax:      DefaultParallax,
			LogLevel:      "info",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from SPLITFLAP_* environment variables. Unset
// variables leave the field alone.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(nil)
}

func (c *Config) applyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// ValidationError names the offending field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	ErrNegative = errors.New("must not be negative")
	ErrRequired = errors.New("is required")
)

func (c *Config) Validate() error {
	nonNegative := []struct {
		field string
		v     int
	}{
		{"story.modal_delay_ms", c.Story.ModalDelayMS},
		{"story.header_delay_ms", c.Story.HeaderDelayMS},
		{"story.body_delay_ms", c.Story.BodyDelayMS},
		{"story.continue_delay_ms", c.Story.ContinueDelayMS},
		{"story.entice_delay_ms", c.Story.EnticeDelayMS},
		{"story.feed_delay_ms", c.Story.FeedDelayMS},
		{"story.expand_ms", c.Story.ExpandMS},
		{"flap.duration_ms", c.Flap.DurationMS},
	}
	for _, nn := range nonNegative {
		if nn.v < 0 {
			return &ValidationError{Field: nn.field, Err: ErrNegative}
		}
	}
	if len(c.Letter.Lines) == 0 && c.Letter.Signature == "" {
		return &ValidationError{Field: "letter.lines", Err: ErrRequired}
	}
	if c.UI.GlowThreshold < 0 {
		return &ValidationError{Field: "ui.glow_threshold", Err: ErrNegative}
	}
	if err := c.Flap.Options().Validate(); err != nil {
		return &ValidationError{Field: "flap", Err: err}
	}
	return nil
}

// Options converts the flap section into animator options.
func (f FlapConfig) Options() flap.Options {
	return flap.Options{
		Budget:       ms(f.DurationMS),
		FlipInterval: ms(f.FlipIntervalMS),
		Lookahead:    f.Lookahead,
		CharsPerFlip: f.CharsPerFlip,
		SpaceFactor:  f.SpaceFactor,
		PunctFactor:  f.PunctFactor,
		LeadInFlips:  f.LeadInFlips,
		Glyphs:       flap.FlipGlyphs,
	}
}

// FlapLines returns the body lines followed by the signature line.
func (l LetterConfig) FlapLines() []flap.Line {
	lines := make([]flap.Line, 0, len(l.Lines)+1)
	for _, text := range l.Lines {
		lines = append(lines, flap.Line{Text: text})
	}
	if l.Signature != "" {
		lines = append(lines, flap.Line{Text: l.Signature, Signature: true})
	}
	return lines
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (s StoryConfig) ModalDelay() time.Duration    { return ms(s.ModalDelayMS) }
func (s StoryConfig) HeaderDelay() time.Duration   { return ms(s.HeaderDelayMS) }
func (s StoryConfig) BodyDelay() time.Duration     { return ms(s.BodyDelayMS) }
func (s StoryConfig) ContinueDelay() time.Duration { return ms(s.ContinueDelayMS) }
func (s StoryConfig) EnticeDelay() time.Duration   { return ms(s.EnticeDelayMS) }
func (s StoryConfig) FeedDelay() time.Duration     { return ms(s.FeedDelayMS) }
func (s StoryConfig) Expand() time.Duration        { return ms(s.ExpandMS) }
