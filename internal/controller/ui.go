// Package controller provides output adapters for displaying run progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeImpact
	ModeHistory
	ModeWatch
)

// Output formats for static listings.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	format string
	cancel context.CancelFunc
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRun, format: FormatTable}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// WithRunMode shows live progress of a run.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithImpactMode prints the impacted declarations in format.
func WithImpactMode(format string) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeImpact
		if format != "" {
			c.format = format
		}
	}
}

// WithHistoryMode prints archived coverage snapshots.
func WithHistoryMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeHistory
	}
}

// WithWatchMode keeps the UI open across several runs.
func WithWatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeWatch
	}
}

// WithCancel lets an interactive UI abort the work it displays.
func WithCancel(cancel context.CancelFunc) StartOption {
	return func(c *StartConfig) {
		c.cancel = cancel
	}
}

// UI defines how runs and listings are shown.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayState(ctx context.Context, state m.State)
	DisplayCoverage(ctx context.Context, measurement int, snapshot m.CoverageSnapshot)
	DisplayOutcome(ctx context.Context, outcome m.Outcome, err error)
	DisplayImpact(ctx context.Context, sets []m.ImpactedSet, err error) error
	DisplayHistory(ctx context.Context, records []m.CoverageRecord, err error) error
	DisplayWatchBatch(ctx context.Context, paths []m.Path)
}

// NewUI returns the interactive TUI on terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
