package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
	cfg StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, cfg: newStartConfig(nil)}
}

// Start records the display mode.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cfg = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayState prints each state transition on its own line.
func (s *SimpleUI) DisplayState(ctx context.Context, state m.State) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("==> %s\n", state)
}

// DisplayCoverage prints one measurement.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, measurement int, snapshot m.CoverageSnapshot) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", coverageLine(measurement, snapshot))
}

// DisplayOutcome prints the terminal status of a run or its error.
func (s *SimpleUI) DisplayOutcome(_ context.Context, outcome m.Outcome, err error) {
	s.printf("%s", renderOutcome(outcome, err))
}

// DisplayImpact prints the impacted declarations in the configured format.
func (s *SimpleUI) DisplayImpact(ctx context.Context, sets []m.ImpactedSet, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("impact error: %v\n", err)
		return err
	}

	return writeImpact(s.cmd.OutOrStdout(), sets, s.cfg.format)
}

// DisplayHistory prints archived snapshots as a table.
func (s *SimpleUI) DisplayHistory(ctx context.Context, records []m.CoverageRecord, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("history error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderHistoryTable(records))

	return nil
}

// DisplayWatchBatch announces the files that triggered a watch run.
func (s *SimpleUI) DisplayWatchBatch(ctx context.Context, paths []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Changes detected in %d file(s)\n", len(paths))

	for _, path := range paths {
		s.printf("  %s\n", path)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func coverageLine(measurement int, snapshot m.CoverageSnapshot) string {
	if !snapshot.Success {
		return fmt.Sprintf("Measurement %d: no coverage report (%.2f%%)", measurement, snapshot.Percent)
	}

	return fmt.Sprintf("Measurement %d: %.2f%% line coverage", measurement, snapshot.Percent)
}

func renderOutcome(outcome m.Outcome, err error) string {
	var b strings.Builder

	if err != nil {
		fmt.Fprintf(&b, "%s %v\n", color.RedString("run failed:"), err)
	}

	if outcome.Status == "" {
		return b.String()
	}

	status := color.YellowString(string(outcome.Status))
	if outcome.Status.Met() {
		status = color.GreenString(string(outcome.Status))
	}

	fmt.Fprintf(&b, "Status: %s  coverage %.2f%% after %d measurement(s)\n", status, outcome.CoveragePercent, outcome.Measurements)

	if outcome.Branch != "" {
		fmt.Fprintf(&b, "Branch: %s\n", outcome.Branch)
	}

	if outcome.PR != nil {
		fmt.Fprintf(&b, "Pull request: #%d %s\n", outcome.PR.Number, outcome.PR.URL)
	}

	fmt.Fprintf(&b, "Run: %s\n", color.HiBlackString(outcome.RunID))

	return b.String()
}

func writeImpact(w io.Writer, sets []m.ImpactedSet, format string) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(nonNil(sets)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return encoder.Close()

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(nonNil(sets)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case FormatTable, "":
		_, err := fmt.Fprintf(w, "\n%s", renderImpactTable(sets))
		return err

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func nonNil(sets []m.ImpactedSet) []m.ImpactedSet {
	if sets == nil {
		return []m.ImpactedSet{}
	}

	return sets
}

func renderImpactTable(sets []m.ImpactedSet) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Kind", "Declaration", "Lines"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, set := range sets {
		for _, decl := range set.Declarations {
			table.Append([]string{string(set.FilePath), string(decl.Kind), decl.DisplayName(), decl.Range.String()})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sets)),
		"",
		fmt.Sprintf("%d", m.CountDeclarations(sets)),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func renderHistoryTable(records []m.CoverageRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Measured", "Run", "Report", "Coverage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT})

	for _, record := range records {
		report := "yes"
		if !record.Snapshot.Success {
			report = "no"
		}

		table.Append([]string{
			record.Snapshot.MeasuredAt.Local().Format(timeLayout),
			shortID(record.RunID),
			report,
			fmt.Sprintf("%.2f%%", record.Snapshot.Percent),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(records)), "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
