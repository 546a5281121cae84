package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// Progress receives state transitions and measurements while a run executes.
type Progress interface {
	DisplayState(ctx context.Context, state m.State)
	DisplayCoverage(ctx context.Context, measurement int, snapshot m.CoverageSnapshot)
}

type noProgress struct{}

func (noProgress) DisplayState(context.Context, m.State) {}

func (noProgress) DisplayCoverage(context.Context, int, m.CoverageSnapshot) {}

// RunRequest selects the mode and inputs of one orchestration run.
type RunRequest struct {
	Root m.Path
	Mode m.Mode
	Diff DiffOptions
	// Publish enables the publishing step once the threshold is met.
	Publish bool
}

// Orchestrator drives one run from change discovery to the terminal status.
type Orchestrator interface {
	// Run returns the outcome of the run. Business outcomes such as an unmet
	// threshold are reported in the outcome; only infrastructure failures are
	// returned as errors.
	Run(ctx context.Context, req RunRequest, progress Progress) (m.Outcome, error)
}

// OrchestratorDeps are the collaborators of an Orchestrator.
type OrchestratorDeps struct {
	Diffs     DiffSource
	Impact    ImpactAnalyzer
	Generator TestGenerator
	TestFiles adapter.TestFileAdapter
	Coverage  adapter.CoverageAdapter
	Reports   adapter.ReportStore
	Publisher Publisher
	Metrics   adapter.Metrics
}

type orchestrator struct {
	OrchestratorDeps

	cfg   Config
	newID func() string
	now   func() time.Time
}

// NewOrchestrator constructs an Orchestrator with an explicit configuration.
func NewOrchestrator(deps OrchestratorDeps, cfg Config) Orchestrator {
	return &orchestrator{
		OrchestratorDeps: deps,
		cfg:              cfg,
		newID:            uuid.NewString,
		now:              time.Now,
	}
}

func (o *orchestrator) Run(ctx context.Context, req RunRequest, progress Progress) (m.Outcome, error) {
	if progress == nil {
		progress = noProgress{}
	}

	run := &m.Run{
		ID:           o.newID(),
		Mode:         req.Mode,
		PrevRevision: req.Diff.Prev,
		CurrRevision: req.Diff.Curr,
		WorkingTree:  req.Diff.UsesWorkingTree(),
		StartedAt:    o.now(),
	}

	if run.Mode == "" {
		run.Mode = m.ModeIncremental
	}

	logger := slog.With("run_id", run.ID)
	logger.Info("Starting run", "mode", run.Mode, "root", req.Root)

	outcome := m.Outcome{RunID: run.ID, Mode: run.Mode}

	if err := o.discover(ctx, req, run, progress); err != nil {
		return outcome, err
	}

	status, err := o.converge(ctx, req.Root, run, progress)
	if err != nil {
		return outcome, err
	}

	last, _ := run.LastSnapshot()
	outcome.Status = status
	outcome.CoveragePercent = last.Percent
	outcome.Measurements = len(run.Snapshots)

	if status.Met() && req.Publish {
		progress.DisplayState(ctx, m.StatePublishing)

		publication, err := o.Publisher.Publish(ctx, req.Root, status, last.Percent)
		outcome.Branch = publication.Branch
		outcome.PR = publication.PR

		if err != nil {
			o.finish(logger, run, outcome)

			return outcome, fmt.Errorf("publish: %w", err)
		}
	}

	progress.DisplayState(ctx, m.StateDone)
	o.finish(logger, run, outcome)

	return outcome, nil
}

// finish records the run duration and logs the terminal status.
func (o *orchestrator) finish(logger *slog.Logger, run *m.Run, outcome m.Outcome) {
	elapsed := o.now().Sub(run.StartedAt)
	o.Metrics.RunFinished(outcome.Status, elapsed)

	logger.Info("Run finished", "status", outcome.Status, "coverage", outcome.CoveragePercent,
		"measurements", outcome.Measurements, "branch", outcome.Branch, "elapsed", elapsed)
}

// discover computes the impacted sets of the run and writes the first
// round of generated tests.
func (o *orchestrator) discover(ctx context.Context, req RunRequest, run *m.Run, progress Progress) error {
	mode := m.WriteAppend

	switch run.Mode {
	case m.ModeBootstrap:
		progress.DisplayState(ctx, m.StateBootstrap)

		sets, err := o.Impact.Bootstrap(ctx, req.Root)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}

		run.Impacted = sets
		mode = m.WriteOverwrite

	case m.ModeIncremental:
		progress.DisplayState(ctx, m.StateIncremental)

		changes, err := o.Diffs.Changes(ctx, req.Root, req.Diff)
		if err != nil {
			return fmt.Errorf("collect changes: %w", err)
		}

		for _, change := range changes {
			run.Changes = append(run.Changes, change.ChangeRecord)
		}

		o.removeDeleted(ctx, req.Root, changes)
		run.Impacted = o.Impact.Incremental(ctx, changes)

	default:
		return fmt.Errorf("unknown mode %q", run.Mode)
	}

	o.Metrics.ImpactedDeclarations(m.CountDeclarations(run.Impacted))

	progress.DisplayState(ctx, m.StateGenerating)

	written, err := o.Generator.Generate(ctx, req.Root, run.Impacted, mode)
	if err != nil {
		return fmt.Errorf("generate tests: %w", err)
	}

	slog.Info("Generated tests", "run_id", run.ID, "files", len(run.Impacted), "snippets", written, "mode", mode)

	return nil
}

// converge measures and runs mutation passes until the threshold is met or
// the iteration budget is spent. It measures at most MaxIterations+1 times.
func (o *orchestrator) converge(ctx context.Context, root m.Path, run *m.Run, progress Progress) (m.Status, error) {
	threshold := o.cfg.Coverage.Threshold

	for iteration := 0; ; iteration++ {
		progress.DisplayState(ctx, m.StateMeasuring)

		snapshot, err := o.measure(ctx, root, run)
		if err != nil {
			return "", err
		}

		progress.DisplayCoverage(ctx, len(run.Snapshots), snapshot)
		progress.DisplayState(ctx, m.StateConverging)

		if snapshot.Percent >= threshold {
			if len(run.Snapshots) == 1 {
				return m.StatusDone, nil
			}

			return m.StatusDoneAfterMutation, nil
		}

		if iteration >= o.cfg.Coverage.MaxIterations {
			slog.Warn("Coverage threshold not met", "run_id", run.ID, "coverage", snapshot.Percent, "threshold", threshold)
			return m.StatusCoverageNotMet, nil
		}

		progress.DisplayState(ctx, m.StateGenerating)

		written, err := o.Generator.Mutate(ctx, root, run.Impacted, snapshot.Percent, iteration+1)
		if err != nil {
			return "", fmt.Errorf("generate mutation tests: %w", err)
		}

		slog.Info("Mutation pass", "run_id", run.ID, "iteration", iteration+1, "snippets", written)
	}
}

// measure records exactly one snapshot. A measurer error counts as a failed
// measurement unless the run was cancelled.
func (o *orchestrator) measure(ctx context.Context, root m.Path, run *m.Run) (m.CoverageSnapshot, error) {
	snapshot, err := o.Coverage.Measure(ctx, root)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.CoverageSnapshot{}, ctxErr
		}

		slog.Warn("Coverage measurement failed", "run_id", run.ID, "error", err)

		snapshot = m.CoverageSnapshot{MeasuredAt: o.now()}
	}

	run.Snapshots = append(run.Snapshots, snapshot)
	o.Metrics.Measurement(snapshot)

	if _, err := o.Reports.SaveSnapshot(ctx, ReportsDir(root, o.cfg), run.ID, snapshot); err != nil {
		slog.Warn("Failed to archive coverage snapshot", "run_id", run.ID, "error", err)
	}

	return snapshot, nil
}

// ReportsDir resolves the snapshot archive directory against root.
func ReportsDir(root m.Path, cfg Config) m.Path {
	if filepath.IsAbs(cfg.Coverage.ReportsDir) {
		return m.Path(cfg.Coverage.ReportsDir)
	}

	return m.Path(filepath.Join(string(root), cfg.Coverage.ReportsDir))
}

func (o *orchestrator) removeDeleted(ctx context.Context, root m.Path, changes []m.FileChange) {
	for _, change := range changes {
		if change.Status != m.StatusDeleted {
			continue
		}

		removed, err := o.TestFiles.Remove(ctx, root, change.FilePath)
		if err != nil {
			slog.Warn("Failed to remove tests of deleted file", "path", change.FilePath, "error", err)
			continue
		}

		if removed {
			slog.Info("Removed tests of deleted file", "path", change.FilePath)
		}
	}
}
