package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/splitflap/internal/automation"
	"github.com/san-kum/splitflap/internal/config"
	"github.com/san-kum/splitflap/internal/export"
	"github.com/san-kum/splitflap/internal/feed"
	"github.com/san-kum/splitflap/internal/flap"
	"github.com/san-kum/splitflap/internal/sched"
	"github.com/san-kum/splitflap/internal/story"
	"github.com/san-kum/splitflap/internal/telemetry"
	"github.com/san-kum/splitflap/internal/tui"
	"github.com/san-kum/splitflap/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	preset       string
	seed         int64
	durationMS   int
	lookahead    int
	flipInterval int
	logPath      string
	logLevel     string
	// play
	theme      string
	autoOpen   bool
	noMouse    bool
	feedSource string
	// plan and render
	planFormat   string
	renderFormat string
	live         bool
	width        int
	// record and runs
	dataDir string
	runs    int
	force   bool
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "splitflap",
		Short:        "split-flap letter reveal for the terminal",
		SilenceUsage: true,
		RunE:         runPlay,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset tuning (see presets)")
	pf.Int64Var(&seed, "seed", 0, "random seed for flip glyphs (0 = config or clock)")
	pf.IntVar(&durationMS, "duration", 0, "animation budget in ms")
	pf.IntVar(&lookahead, "lookahead", 0, "cells scrambling ahead of the cursor")
	pf.IntVar(&flipInterval, "flip-interval", 0, "ms between flips")
	pf.StringVar(&logPath, "log", "", "log file path")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&theme, "theme", "", "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	pf.BoolVar(&autoOpen, "auto-open", false, "open the letter without waiting for a key")
	pf.BoolVar(&noMouse, "no-mouse", false, "disable mouse tracking")
	pf.StringVar(&feedSource, "feed", "", "feed markdown file or http(s) url")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the landing sequence",
		RunE:  runPlay,
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "print the nominal settle schedule",
		RunE:  runPlan,
	}
	planCmd.Flags().StringVar(&planFormat, "format", "table", "output format: table, csv, json, graph")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "print the letter body in its final form",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&renderFormat, "format", "ansi", "output format: ansi, html, plain")
	renderCmd.Flags().BoolVar(&live, "live", false, "animate in place instead of printing the final text")
	renderCmd.Flags().IntVar(&width, "width", 72, "wrap width")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run the animation on a virtual clock and store the settle trace",
		RunE:  runRecord,
	}
	recordCmd.Flags().StringVar(&dataDir, "data", ".splitflap", "data directory")
	recordCmd.Flags().IntVar(&runs, "runs", 1, "number of runs, seeded consecutively")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded traces",
		RunE:  listRuns,
	}
	runsCmd.Flags().StringVar(&dataDir, "data", ".splitflap", "data directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(cmd.OutOrStdout())
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	timelineCmd := &cobra.Command{
		Use:   "timeline [scenario.yaml]",
		Short: "play a scripted session on a virtual clock and print what happened",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTimeline,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plan the letter across a range of one flap setting",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "duration_ms", "setting to vary: "+strings.Join(automation.SweepParams(), ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1000, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")

	rootCmd.AddCommand(playCmd, planCmd, renderCmd, recordCmd, runsCmd, timelineCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the configuration: defaults, then the config file,
// then --preset, then SPLITFLAP_* variables, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("duration") {
		cfg.Flap.DurationMS = durationMS
	}
	if flags.Changed("lookahead") {
		cfg.Flap.Lookahead = lookahead
	}
	if flags.Changed("flip-interval") {
		cfg.Flap.FlipIntervalMS = flipInterval
	}
	if flags.Changed("log") {
		cfg.UI.LogPath = logPath
	}
	if flags.Changed("log-level") {
		cfg.UI.LogLevel = logLevel
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = theme
	}
	if flags.Changed("auto-open") {
		cfg.Story.AutoOpen = autoOpen
	}
	if flags.Changed("no-mouse") {
		cfg.UI.Mouse = !noMouse
	}
	if flags.Changed("feed") {
		cfg.Feed.Source = feedSource
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveSeed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := telemetry.New(cfg.UI.LogPath, cfg.UI.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	s := resolveSeed(cfg)
	sess, err := story.New(cfg, sched.New(), rand.New(rand.NewSource(s)), logger)
	if err != nil {
		return err
	}
	logger.Info("session", "preset", cfg.Preset, "seed", s, "lines", len(sess.Lines()))

	m := tui.New(tui.Options{
		Session:       sess,
		Feed:          feed.NewLoader(feed.NewSource(cfg.Feed.Source, cfg.Feed.Handle)),
		Styles:        viz.NewStyles(viz.GetTheme(cfg.UI.Theme)),
		Handle:        cfg.Feed.Handle,
		FeedStyle:     cfg.Feed.Style,
		GlowThreshold: cfg.UI.GlowThreshold,
		Parallax:      cfg.UI.Parallax,
		Logger:        logger,
	})
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lines := cfg.Letter.FlapLines()
	plan := flap.Plan(lines, cfg.Flap.Options())
	return writePlan(cmd.OutOrStdout(), planFormat, lines, plan)
}

func writePlan(out io.Writer, format string, lines []flap.Line, plan flap.Schedule) error {
	switch format {
	case "csv":
		return export.PlanCSV(out, plan)
	case "json":
		return export.PlanJSON(out, plan)
	case "graph":
		if len(plan.Entries) == 0 {
			fmt.Fprintln(out, "nothing to plot")
			return nil
		}
		graph := asciigraph.Plot(plan.Cumulative(),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("settle time (ms) by cell, per char %v", plan.PerChar)),
		)
		fmt.Fprintln(out, graph)
		return nil
	case "table", "":
	default:
		return fmt.Errorf("unknown format: %s (available: table, csv, json, graph)", format)
	}

	cells := make([]int, len(lines))
	for _, e := range plan.Entries {
		cells[e.Line]++
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tKIND\tCELLS\tENDS\tTEXT")
	for i, l := range lines {
		kind := "body"
		if l.Signature {
			kind = "signature"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%s\n", i, kind, cells[i], plan.LineEnds[i], truncate(flap.Clean(l.Text), 40))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nper char: %v  settle sum: %v  total: %v\n", plan.PerChar, plan.SettleSum, plan.Total)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lines := cfg.Letter.FlapLines()
	out := cmd.OutOrStdout()

	switch renderFormat {
	case "html":
		for _, l := range lines {
			fmt.Fprintln(out, flap.FormatHTML(l.Text))
		}
		return nil
	case "plain":
		for _, l := range lines {
			fmt.Fprintln(out, flap.Format(l.Text).Plain())
		}
		return nil
	case "ansi", "":
	default:
		return fmt.Errorf("unknown format: %s (available: ansi, html, plain)", renderFormat)
	}

	s := sched.New()
	anim, err := flap.New(s, cfg.Flap.Options(), rand.New(rand.NewSource(resolveSeed(cfg))))
	if err != nil {
		return err
	}
	r := tui.NewLiveRenderer(out, viz.NewStyles(viz.GetTheme(cfg.UI.Theme)), width, 60)

	if live {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := r.Play(ctx, anim, s, lines); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	run, err := anim.Animate(lines, nil)
	if err != nil {
		return err
	}
	s.Drain(1 << 22)
	fmt.Fprintln(out, r.Frame(run.Snapshot()))
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	e := export.Ensemble{
		Lines:     cfg.Letter.FlapLines(),
		Options:   cfg.Flap.Options(),
		Runs:      runs,
		SeedStart: resolveSeed(cfg),
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	traces, err := e.Record(ctx)
	if err != nil {
		return err
	}

	st := export.NewStore(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, tr := range traces {
		tr.Preset = cfg.Preset
		dir, err := st.Save(tr)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run: %s  seed: %d  settles: %d  total: %.1fms  saved: %s\n",
			tr.ID, tr.Seed, len(tr.Settles), tr.TotalMS, dir)
	}
	if len(traces) > 1 {
		sum := export.Summarize(traces)
		fmt.Fprintf(out, "\nruns: %d  min: %.1fms  max: %.1fms  mean: %.1fms  stddev: %.2fms\n",
			sum.Runs, sum.MinMS, sum.MaxMS, sum.MeanMS, sum.StdDevMS)
	}
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc := automation.DefaultScenario()
	if len(args) > 0 {
		if sc, err = automation.LoadScenario(args[0]); err != nil {
			return err
		}
	}
	sess, err := story.New(cfg, sched.New(), rand.New(rand.NewSource(resolveSeed(cfg))), nil)
	if err != nil {
		return err
	}
	events, runErr := automation.Run(sess, sc)
	if err := writeTimeline(cmd.OutOrStdout(), sc, events); err != nil {
		return err
	}
	return runErr
}

func writeTimeline(out io.Writer, sc *automation.Scenario, events []automation.Event) error {
	if sc.Name != "" {
		fmt.Fprintf(out, "scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Fprintln(out, sc.Description)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tKIND\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%.0fms\t%s\t%s\n", e.AtMS, e.Kind, e.Detail)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cfg.Flap, cfg.Letter.FlapLines(), automation.Sweep{
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPER CHAR\tSETTLE SUM\tTOTAL\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%v\t%v\t%v\n", r.Value, r.PerChar, r.SettleSum, r.Total)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := export.NewStore(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSEED\tSETTLES\tTOTAL\tRECORDED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1fms\t%s\n",
			r.ID, r.Preset, r.Seed, len(r.Settles), r.TotalMS, r.Recorded.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func printPresets(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tFLIP\tLOOKAHEAD\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%dms\t%dms\t%d\t%s\n", name, p.Flap.DurationMS, p.Flap.FlipIntervalMS, p.Flap.Lookahead, p.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "splitflap.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := config.DefaultConfig()
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
