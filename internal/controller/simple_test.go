package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

func newTestUI(t *testing.T) (*SimpleUI, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func sampleSets() []m.ImpactedSet {
	return []m.ImpactedSet{
		{
			FilePath: "src/math.js",
			Declarations: []m.Declaration{
				m.NewDeclaration(m.KindFunction, "add", m.NewLineRange(3, 8)),
				m.NewDeclaration(m.KindClass, "", m.NewLineRange(10, 14)),
			},
			ChangedRanges: []m.LineRange{{Start: 4, End: 4}, {Start: 12, End: 12}},
		},
	}
}

func TestSimpleUI_DisplayImpact(t *testing.T) {
	tests := []struct {
		name         string
		format       string
		wantContains []string
	}{
		{
			name:         "table",
			format:       FormatTable,
			wantContains: []string{"src/math.js", "add", "(anonymous)", "L3-L8", "TOTAL FILES 1"},
		},
		{
			name:         "yaml",
			format:       FormatYAML,
			wantContains: []string{"file_path: src/math.js", "identifier: class", "changed_ranges:"},
		},
		{
			name:         "json",
			format:       FormatJSON,
			wantContains: []string{`"file_path": "src/math.js"`, `"identifier": "add"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newTestUI(t)
			ctx := context.Background()

			require.NoError(t, ui.Start(ctx, WithImpactMode(tt.format)))
			require.NoError(t, ui.DisplayImpact(ctx, sampleSets(), nil))

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestSimpleUI_DisplayImpact_StructuredOutputParses(t *testing.T) {
	ctx := context.Background()

	ui, buf := newTestUI(t)
	require.NoError(t, ui.Start(ctx, WithImpactMode(FormatJSON)))
	require.NoError(t, ui.DisplayImpact(ctx, nil, nil))

	var decoded []m.ImpactedSet
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Empty(t, decoded)

	ui, buf = newTestUI(t)
	require.NoError(t, ui.Start(ctx, WithImpactMode(FormatYAML)))
	require.NoError(t, ui.DisplayImpact(ctx, sampleSets(), nil))

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Len(t, decoded[0].Declarations, 2)
}

func TestSimpleUI_DisplayImpact_Errors(t *testing.T) {
	ctx := context.Background()

	ui, buf := newTestUI(t)
	failure := errors.New("git not found")

	err := ui.DisplayImpact(ctx, nil, failure)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, buf.String(), "impact error: git not found")

	require.NoError(t, ui.Start(ctx, WithImpactMode("xml")))
	assert.Error(t, ui.DisplayImpact(ctx, sampleSets(), nil))
}

func TestSimpleUI_DisplayHistory(t *testing.T) {
	ui, buf := newTestUI(t)

	records := []m.CoverageRecord{
		{
			RunID: "0f8fad5b-d9cb-469f-a165-70867728950e",
			Snapshot: m.CoverageSnapshot{
				Success:    true,
				Percent:    72.5,
				MeasuredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			RunID:    "7c9e6679",
			Snapshot: m.CoverageSnapshot{MeasuredAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		},
	}

	require.NoError(t, ui.DisplayHistory(context.Background(), records, nil))

	out := buf.String()
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "0f8fad5b-d9cb")
	assert.Contains(t, out, "72.50%")
	assert.Contains(t, out, "0.00%")
	assert.Contains(t, out, "TOTAL 2")
}

func TestSimpleUI_DisplayOutcome(t *testing.T) {
	tests := []struct {
		name         string
		outcome      m.Outcome
		err          error
		wantContains []string
		wantMissing  []string
	}{
		{
			name: "published",
			outcome: m.Outcome{
				RunID:           "run-1",
				Status:          m.StatusDoneAfterMutation,
				CoveragePercent: 81.25,
				Measurements:    3,
				Branch:          "auto/tests/01j",
				PR:              &m.PullRequest{Number: 7, URL: "https://github.com/acme/app/pull/7"},
			},
			wantContains: []string{"done_after_mutation", "81.25%", "3 measurement(s)", "Branch: auto/tests/01j", "#7 https://github.com/acme/app/pull/7"},
		},
		{
			name:         "threshold not met",
			outcome:      m.Outcome{RunID: "run-2", Status: m.StatusCoverageNotMet, CoveragePercent: 50, Measurements: 6},
			wantContains: []string{"coverage_not_met", "50.00%"},
			wantMissing:  []string{"Branch:", "Pull request"},
		},
		{
			name:         "failure before convergence",
			outcome:      m.Outcome{RunID: "run-3"},
			err:          errors.New("collect changes: not a git repository"),
			wantContains: []string{"run failed:", "not a git repository"},
			wantMissing:  []string{"Status:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newTestUI(t)

			ui.DisplayOutcome(context.Background(), tt.outcome, tt.err)

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}

			for _, missing := range tt.wantMissing {
				assert.NotContains(t, buf.String(), missing)
			}
		})
	}
}

func TestSimpleUI_Progress(t *testing.T) {
	ui, buf := newTestUI(t)
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx, WithRunMode()))
	ui.DisplayState(ctx, m.StateMeasuring)
	ui.DisplayCoverage(ctx, 1, m.CoverageSnapshot{Success: true, Percent: 64})
	ui.DisplayCoverage(ctx, 2, m.CoverageSnapshot{})
	ui.DisplayWatchBatch(ctx, []m.Path{"src/a.js"})
	ui.Wait(ctx)
	ui.Close(ctx)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"==> measuring",
		"Measurement 1: 64.00% line coverage",
		"Measurement 2: no coverage report (0.00%)",
		"Changes detected in 1 file(s)",
		"  src/a.js",
	}, lines)
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, buf := newTestUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ui.Start(ctx), context.Canceled)
	ui.DisplayState(ctx, m.StateDone)
	assert.ErrorIs(t, ui.DisplayHistory(ctx, nil, nil), context.Canceled)
	assert.Empty(t, buf.String())
}
