package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

var errBackend = errors.New("backend unavailable")

type fakeGenerator struct {
	mu        sync.Mutex
	fail      map[string]bool
	declCalls []adapter.DeclarationRequest
	mutCalls  []adapter.MutationRequest
}

func (f *fakeGenerator) GenerateForDeclaration(_ context.Context, req adapter.DeclarationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.declCalls = append(f.declCalls, req)

	if f.fail[req.Declaration.Identifier] {
		return "", errBackend
	}

	return fmt.Sprintf("test('%s', () => {});", req.Declaration.Identifier), nil
}

func (f *fakeGenerator) GenerateMutation(_ context.Context, req adapter.MutationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mutCalls = append(f.mutCalls, req)

	if f.fail[m.MutationIdentifier] {
		return "", errBackend
	}

	return fmt.Sprintf("test('gap %d', () => {});", len(f.mutCalls)), nil
}

func (f *fakeGenerator) declarationIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.declCalls))
	for _, call := range f.declCalls {
		ids = append(ids, call.Declaration.Identifier)
	}

	return ids
}

func (f *fakeGenerator) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.mutCalls)
}

// fakeCoverage returns percents in order and repeats the last one.
type fakeCoverage struct {
	percents []float64
	err      error
	calls    int
}

func (f *fakeCoverage) Measure(ctx context.Context, _ m.Path) (m.CoverageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.CoverageSnapshot{}, err
	}

	f.calls++

	if f.err != nil {
		return m.CoverageSnapshot{}, f.err
	}

	percent := f.percents[min(f.calls, len(f.percents))-1]

	return m.CoverageSnapshot{Success: true, Percent: percent, MeasuredAt: time.Now()}, nil
}

type fakeReports struct {
	saved []m.CoverageSnapshot
	dirs  []m.Path
}

func (f *fakeReports) SaveSnapshot(_ context.Context, dir m.Path, runID string, snapshot m.CoverageSnapshot) (m.Path, error) {
	f.saved = append(f.saved, snapshot)
	f.dirs = append(f.dirs, dir)

	return m.Path(filepath.Join(string(dir), runID+".json")), nil
}

func (f *fakeReports) LoadSnapshots(context.Context, m.Path) ([]m.CoverageRecord, error) {
	records := make([]m.CoverageRecord, 0, len(f.saved))
	for _, snapshot := range f.saved {
		records = append(records, m.CoverageRecord{Snapshot: snapshot})
	}

	return records, nil
}

type fakePublisher struct {
	calls    int
	status   m.Status
	coverage float64
	result   Publication
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, _ m.Path, status m.Status, coverage float64) (Publication, error) {
	f.calls++
	f.status = status
	f.coverage = coverage

	return f.result, f.err
}

type fakeDiffSource struct {
	changes []m.FileChange
	err     error
}

func (f *fakeDiffSource) Records(context.Context, m.Path, DiffOptions) ([]m.ChangeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}

	records := make([]m.ChangeRecord, 0, len(f.changes))
	for _, change := range f.changes {
		records = append(records, change.ChangeRecord)
	}

	return records, nil
}

func (f *fakeDiffSource) Changes(context.Context, m.Path, DiffOptions) ([]m.FileChange, error) {
	return f.changes, f.err
}

type recordingProgress struct {
	states       []m.State
	measurements []int
}

func (r *recordingProgress) DisplayState(_ context.Context, state m.State) {
	r.states = append(r.states, state)
}

func (r *recordingProgress) DisplayCoverage(_ context.Context, measurement int, _ m.CoverageSnapshot) {
	r.measurements = append(r.measurements, measurement)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Paths.SourceRoot = "src"
	cfg.Paths.Extensions = []string{".js", ".ts", ".go"}
	cfg.Parallel = 4

	return cfg
}

func newExtractor() DeclarationExtractor {
	return NewDeclarationExtractor(adapter.NewLocalGoFileAdapter(), adapter.NewTreeSitterScriptAdapter())
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

const mathJS = `const PI = 3;

function add(a, b) {
  return a + b;
}

function sub(a, b) {
  return a - b;
}

class Calculator {
  run() {
    return add(1, 2);
  }
}
`
