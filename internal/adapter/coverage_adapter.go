package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/cover"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// ErrNoCoverageReport is returned when a test run left no coverage report behind.
var ErrNoCoverageReport = errors.New("no coverage report produced")

// DefaultJestCommand runs the Jest suite with the json-summary reporter enabled.
const DefaultJestCommand = "npm test --silent -- --coverage --coverageReporters=json-summary --coverageReporters=text"

// JestSummaryPath is where Jest writes its json-summary report.
const JestSummaryPath = "coverage/coverage-summary.json"

// CoverageAdapter runs a project's suite and measures its line coverage.
type CoverageAdapter interface {
	// Measure runs the suite in dir and returns one snapshot. Failing tests are
	// not an error; a missing report yields Success=false and 0%.
	Measure(ctx context.Context, dir m.Path) (m.CoverageSnapshot, error)
}

// GoCoverageAdapter measures statement coverage with `go test -coverprofile`.
type GoCoverageAdapter struct {
	runner TestRunnerAdapter
	args   []string
	now    func() time.Time
}

// NewGoCoverageAdapter constructs a GoCoverageAdapter running `go test ./...`.
func NewGoCoverageAdapter(runner TestRunnerAdapter) *GoCoverageAdapter {
	return &GoCoverageAdapter{
		runner: runner,
		args:   []string{"./..."},
		now:    time.Now,
	}
}

// Measure runs the suite with a temporary profile and parses it.
func (a *GoCoverageAdapter) Measure(ctx context.Context, dir m.Path) (m.CoverageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.CoverageSnapshot{}, err
	}

	profile, err := os.CreateTemp("", "suitesync-cover-*.out")
	if err != nil {
		return m.CoverageSnapshot{}, fmt.Errorf("create coverage profile: %w", err)
	}

	profilePath := profile.Name()
	_ = profile.Close()

	// go test only writes a profile when the run produced one
	if err := os.Remove(profilePath); err != nil {
		return m.CoverageSnapshot{}, fmt.Errorf("prepare coverage profile: %w", err)
	}
	defer os.Remove(profilePath)

	args := append([]string{"-coverprofile=" + profilePath}, a.args...)

	output, runErr := a.runner.RunGoTest(ctx, dir, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.CoverageSnapshot{}, ctxErr
	}

	if runErr != nil {
		slog.Warn("Test suite reported failures", "dir", dir, "error", runErr)
	}

	details, err := ParseGoProfile(profilePath, modulePath(dir))
	if err != nil {
		if !errors.Is(err, ErrNoCoverageReport) {
			slog.Warn("Failed to parse coverage profile", "path", profilePath, "error", err)
		}

		return m.CoverageSnapshot{Details: m.CoverageDetails{Output: output}, MeasuredAt: a.now()}, nil
	}

	details.Output = output

	return m.CoverageSnapshot{
		Success:    true,
		Percent:    percent(details.Covered, details.Total),
		Details:    details,
		MeasuredAt: a.now(),
	}, nil
}

// ParseGoProfile computes statement coverage from a Go cover profile. File
// names are reported relative to module when it prefixes them.
func ParseGoProfile(path string, module string) (m.CoverageDetails, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.CoverageDetails{}, ErrNoCoverageReport
		}

		return m.CoverageDetails{}, fmt.Errorf("stat coverage profile: %w", err)
	}

	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return m.CoverageDetails{}, fmt.Errorf("parse coverage profile: %w", err)
	}

	var details m.CoverageDetails

	for _, profile := range profiles {
		var covered, total int64

		for _, block := range profile.Blocks {
			total += int64(block.NumStmt)
			if block.Count > 0 {
				covered += int64(block.NumStmt)
			}
		}

		name := profile.FileName
		if module != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, module), "/")
		}

		details.Files = append(details.Files, m.FileCoverage{
			Path:    m.Path(name),
			Covered: covered,
			Total:   total,
			Percent: percent(covered, total),
		})
		details.Covered += covered
		details.Total += total
	}

	return details, nil
}

func modulePath(dir m.Path) string {
	// #nosec G304 - go.mod of the project being measured
	data, err := os.ReadFile(filepath.Join(string(dir), "go.mod"))
	if err != nil {
		return ""
	}

	return modfile.ModulePath(data)
}

// JestCoverageAdapter runs an npm/Jest command and reads its json-summary report.
type JestCoverageAdapter struct {
	runner  TestRunnerAdapter
	command string
	summary string
	now     func() time.Time
}

// NewJestCoverageAdapter constructs a JestCoverageAdapter. An empty command
// falls back to DefaultJestCommand.
func NewJestCoverageAdapter(runner TestRunnerAdapter, command string) *JestCoverageAdapter {
	if strings.TrimSpace(command) == "" {
		command = DefaultJestCommand
	}

	return &JestCoverageAdapter{
		runner:  runner,
		command: command,
		summary: JestSummaryPath,
		now:     time.Now,
	}
}

// Measure runs the configured command and parses coverage-summary.json.
func (a *JestCoverageAdapter) Measure(ctx context.Context, dir m.Path) (m.CoverageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.CoverageSnapshot{}, err
	}

	summaryPath := filepath.Join(string(dir), a.summary)

	// a stale summary from an earlier run must not be mistaken for this one
	if err := os.Remove(summaryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return m.CoverageSnapshot{}, fmt.Errorf("remove stale coverage summary: %w", err)
	}

	output, runErr := a.runner.RunCommand(ctx, dir, a.command)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return m.CoverageSnapshot{}, ctxErr
	}

	if runErr != nil {
		slog.Warn("Test command reported failures", "dir", dir, "command", a.command, "error", runErr)
	}

	percentage, details, err := ParseJestSummary(summaryPath, string(dir))
	if err != nil {
		if !errors.Is(err, ErrNoCoverageReport) {
			slog.Warn("Failed to parse coverage summary", "path", summaryPath, "error", err)
		}

		return m.CoverageSnapshot{Details: m.CoverageDetails{Output: output}, MeasuredAt: a.now()}, nil
	}

	details.Output = output

	return m.CoverageSnapshot{
		Success:    true,
		Percent:    percentage,
		Details:    details,
		MeasuredAt: a.now(),
	}, nil
}

type jestLines struct {
	Total   int64           `json:"total"`
	Covered int64           `json:"covered"`
	Pct     json.RawMessage `json:"pct"`
}

type jestEntry struct {
	Lines jestLines `json:"lines"`
}

// ParseJestSummary reads total.lines.pct and per-file line coverage from a
// Jest json-summary report. Absolute file keys are made relative to root.
func ParseJestSummary(path string, root string) (float64, m.CoverageDetails, error) {
	// #nosec G304 - report path is derived from the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, m.CoverageDetails{}, ErrNoCoverageReport
		}

		return 0, m.CoverageDetails{}, fmt.Errorf("read coverage summary: %w", err)
	}

	var entries map[string]jestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, m.CoverageDetails{}, fmt.Errorf("decode coverage summary: %w", err)
	}

	total, ok := entries["total"]
	if !ok {
		return 0, m.CoverageDetails{}, fmt.Errorf("coverage summary has no total: %w", ErrNoCoverageReport)
	}

	details := m.CoverageDetails{Covered: total.Lines.Covered, Total: total.Lines.Total}

	for key, entry := range entries {
		if key == "total" {
			continue
		}

		name := key
		if root != "" {
			if rel, err := filepath.Rel(root, key); err == nil && !strings.HasPrefix(rel, "..") {
				name = rel
			}
		}

		details.Files = append(details.Files, m.FileCoverage{
			Path:    m.Path(name),
			Covered: entry.Lines.Covered,
			Total:   entry.Lines.Total,
			Percent: entry.Lines.percent(),
		})
	}

	sort.Slice(details.Files, func(i, j int) bool { return details.Files[i].Path < details.Files[j].Path })

	return total.Lines.percent(), details, nil
}

// percent prefers the reported pct, which is the string "Unknown" for empty files.
func (l jestLines) percent() float64 {
	var pct float64
	if err := json.Unmarshal(l.Pct, &pct); err == nil {
		return pct
	}

	return percent(l.Covered, l.Total)
}

func percent(covered, total int64) float64 {
	if total == 0 {
		return 0
	}

	return float64(covered) * 100 / float64(total)
}
