// Package main provides the CLI entrypoint for wpmtest.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/wpmtest/internal/config"
	"github.com/verte-zerg/wpmtest/internal/generator"
	"github.com/verte-zerg/wpmtest/internal/model"
	"github.com/verte-zerg/wpmtest/internal/session"
	"github.com/verte-zerg/wpmtest/internal/tui"
	"github.com/verte-zerg/wpmtest/internal/wordbank"
)

const (
	defaultWords   = generator.DefaultWords
	defaultPause   = tui.DefaultPause
	defaultTick    = tui.DefaultTick
	defaultScoring = string(model.ScoringRound)

	debugEnv        = "WPMTEST_DEBUG"
	exitFailure     = 1
	exitInterrupted = 130
)

var errInterrupted = errors.New("typing test terminated")

var (
	practiceWords   int
	practicePause   time.Duration
	practiceTick    time.Duration
	practiceScoring string
	practiceSeed    int64
	configPath      string
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errInterrupted):
		logErrln("Typing test terminated.")
		os.Exit(exitInterrupted)
	default:
		logErrf("An error occurred: %v\n", err)
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wpmtest",
		Short:         "Terminal typing speed test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per round")
	rootCmd.Flags().DurationVar(&practicePause, "pause", defaultPause, "pause after a completed round")
	rootCmd.Flags().DurationVar(&practiceTick, "tick", defaultTick, "live WPM refresh interval")
	rootCmd.Flags().StringVar(&practiceScoring, "scoring", defaultScoring, "final result scope: round or session")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for word selection (0: time-based)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/wpmtest/config.toml)")

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	logger, closeLog, err := openDebugLog()
	if err != nil {
		return err
	}
	defer closeLog()

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSource(rand.NewSource(cfg.Seed))
	}
	sess := session.New(cfg, wordbank.Default(), gen, time.Now)
	m := tui.NewModel(sess, tui.Options{Pause: cfg.Pause, Tick: cfg.Tick, Logger: logger})

	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return errInterrupted
	}
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	fm, ok := final.(*tui.Model)
	if !ok {
		return nil
	}
	if fm.Interrupted() {
		return errInterrupted
	}
	if res, ok := fm.Result(); ok {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%.2f WPM, %.2f%% accuracy\n", res.WPM, res.Accuracy); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	pause, err := config.ParseDuration("pause", fileCfg.Practice.Pause)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	tick, err := config.ParseDuration("tick", fileCfg.Practice.Tick)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyDurationConfig(cmd, "pause", &practicePause, pause)
	applyDurationConfig(cmd, "tick", &practiceTick, tick)
	applyStringConfig(cmd, "scoring", &practiceScoring, fileCfg.Practice.Scoring)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)

	scoring, err := model.ParseScoring(practiceScoring)
	if err != nil {
		return model.Config{}, fmt.Errorf("--scoring: %w", err)
	}
	cfg := model.Config{
		Words:   practiceWords,
		Pause:   practicePause,
		Tick:    practiceTick,
		Scoring: scoring,
		Seed:    practiceSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// openDebugLog routes the standard logger to the file named by
// WPMTEST_DEBUG. Without it, logging is discarded so the TUI stays clean.
func openDebugLog() (*log.Logger, func(), error) {
	path := strings.TrimSpace(os.Getenv(debugEnv))
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := tea.LogToFile(path, "wpmtest")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return log.Default(), func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Pause <= 0 {
		return fmt.Errorf("--pause must be > 0")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
