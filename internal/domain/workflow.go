package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	"suitesync.dev/pkg/suitesync/internal/controller"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// RunArgs contains the arguments of one synchronization run.
type RunArgs struct {
	Root      m.Path
	Config    Config
	Bootstrap bool
	Diff      DiffOptions
	NoPublish bool
	// MetricsFile receives the Prometheus metrics of the run when set.
	MetricsFile string
}

// ImpactArgs contains the arguments of a dry impact analysis.
type ImpactArgs struct {
	Root   m.Path
	Config Config
	Diff   DiffOptions
	Format string
}

// HistoryArgs contains the arguments for listing archived coverage snapshots.
type HistoryArgs struct {
	Root   m.Path
	Config Config
}

// WatchArgs contains the arguments of watch mode.
type WatchArgs struct {
	Root        m.Path
	Config      Config
	Debounce    time.Duration
	NoPublish   bool
	MetricsFile string
}

// Workflow is the entry point the CLI drives.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	Impact(ctx context.Context, args ImpactArgs) error
	History(ctx context.Context, args HistoryArgs) error
	Watch(ctx context.Context, args WatchArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.GitAdapter
	adapter.ReportStore
	controller.UI

	goFiles adapter.GoFileAdapter
	scripts adapter.ScriptFileAdapter
	factory AdapterFactory
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	gitAdapter adapter.GitAdapter,
	goFileAdapter adapter.GoFileAdapter,
	scriptAdapter adapter.ScriptFileAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	factory AdapterFactory,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		GitAdapter:      gitAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		goFiles:         goFileAdapter,
		scripts:         scriptAdapter,
		factory:         factory,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	if err := args.Config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx, controller.WithRunMode(), controller.WithCancel(cancel)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	metrics := w.factory.Metrics()
	orchestrator := w.newOrchestrator(args.Config, metrics)

	outcome, err := orchestrator.Run(ctx, w.runRequest(args), w.UI)

	w.DisplayOutcome(ctx, outcome, err)
	w.Close(ctx)
	w.writeMetrics(metrics, args.MetricsFile)

	if err != nil {
		slog.Error("Run failed", "run_id", outcome.RunID, "error", err)
		return fmt.Errorf("run: %w", err)
	}

	return nil
}

func (w *workflow) Impact(ctx context.Context, args ImpactArgs) error {
	if err := args.Config.Validate(); err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithImpactMode(args.Format)); err != nil {
		return err
	}
	defer w.Close(ctx)

	filter := NewSourceFilter(args.Config)
	changes, err := NewDiffSource(w.GitAdapter, w.SourceFSAdapter, filter).Changes(ctx, args.Root, args.Diff)

	var sets []m.ImpactedSet
	if err == nil {
		sets = w.newImpactAnalyzer(args.Config).Incremental(ctx, changes)
	} else {
		err = fmt.Errorf("collect changes: %w", err)
	}

	return w.DisplayImpact(ctx, sets, err)
}

func (w *workflow) History(ctx context.Context, args HistoryArgs) error {
	if err := w.Start(ctx, controller.WithHistoryMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	records, err := w.LoadSnapshots(ctx, ReportsDir(args.Root, args.Config))
	if err != nil {
		err = fmt.Errorf("load snapshots: %w", err)
	}

	return w.DisplayHistory(ctx, records, err)
}

// Watch runs an incremental working-tree pass after every quiet period
// following source changes. Runs never overlap.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if err := args.Config.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx, controller.WithWatchMode(), controller.WithCancel(cancel)); err != nil {
		return err
	}
	defer w.Close(ctx)

	filter := NewSourceFilter(args.Config)
	watcher := w.factory.Watcher(args.Debounce, func(path string) bool {
		rel, err := filepath.Rel(string(args.Root), path)
		return err == nil && filter.Match(rel)
	})

	metrics := w.factory.Metrics()
	orchestrator := w.newOrchestrator(args.Config, metrics)

	var mu sync.Mutex

	err := watcher.Watch(ctx, args.Root, func(ctx context.Context, paths []m.Path) error {
		mu.Lock()
		defer mu.Unlock()

		w.DisplayWatchBatch(ctx, paths)

		outcome, err := orchestrator.Run(ctx, RunRequest{
			Root:    args.Root,
			Mode:    m.ModeIncremental,
			Diff:    DiffOptions{WorkingTree: true},
			Publish: args.Config.Publish.Enabled && !args.NoPublish,
		}, w.UI)

		w.DisplayOutcome(ctx, outcome, err)
		w.writeMetrics(metrics, args.MetricsFile)

		return err
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

func (w *workflow) runRequest(args RunArgs) RunRequest {
	mode := m.ModeIncremental
	if args.Bootstrap {
		mode = m.ModeBootstrap
	}

	return RunRequest{
		Root:    args.Root,
		Mode:    mode,
		Diff:    args.Diff,
		Publish: args.Config.Publish.Enabled && !args.NoPublish,
	}
}

func (w *workflow) newImpactAnalyzer(cfg Config) ImpactAnalyzer {
	return NewImpactAnalyzer(w.SourceFSAdapter, NewDeclarationExtractor(w.goFiles, w.scripts), cfg)
}

func (w *workflow) newOrchestrator(cfg Config, metrics adapter.Metrics) Orchestrator {
	testFiles := adapter.NewLocalTestFileAdapter(w.SourceFSAdapter, cfg.TestLayout())

	return NewOrchestrator(OrchestratorDeps{
		Diffs:     NewDiffSource(w.GitAdapter, w.SourceFSAdapter, NewSourceFilter(cfg)),
		Impact:    w.newImpactAnalyzer(cfg),
		Generator: NewTestGenerator(w.factory.Generator(cfg.Generation), testFiles, metrics, cfg.Parallel),
		TestFiles: testFiles,
		Coverage:  w.factory.Coverage(cfg.Coverage),
		Reports:   w.ReportStore,
		Publisher: NewPublisher(w.GitAdapter, w.factory.PullRequests(cfg.Publish), cfg.Publish),
		Metrics:   metrics,
	}, cfg)
}

func (w *workflow) writeMetrics(metrics adapter.Metrics, path string) {
	if path == "" {
		return
	}

	if err := metrics.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics file", "path", path, "error", err)
	}
}
