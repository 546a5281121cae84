package domain

import (
	"time"

	"suitesync.dev/pkg/suitesync/internal/adapter"
)

// AdapterFactory builds the adapters whose construction depends on the
// configuration of a run.
type AdapterFactory interface {
	Generator(cfg GenerationConfig) adapter.GeneratorAdapter
	PullRequests(cfg PublishConfig) adapter.PullRequestAdapter
	Coverage(cfg CoverageConfig) adapter.CoverageAdapter
	Watcher(debounce time.Duration, accept func(path string) bool) adapter.WatchAdapter
	Metrics() adapter.Metrics
}

type adapterFactory struct {
	runner adapter.TestRunnerAdapter
}

// NewAdapterFactory returns the factory of the production adapters.
func NewAdapterFactory(runner adapter.TestRunnerAdapter) AdapterFactory {
	return &adapterFactory{runner: runner}
}

func (f *adapterFactory) Generator(cfg GenerationConfig) adapter.GeneratorAdapter {
	return adapter.NewOpenAIGeneratorAdapter(adapter.GeneratorConfig{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
		Rate:     cfg.Rate,
	})
}

func (f *adapterFactory) PullRequests(cfg PublishConfig) adapter.PullRequestAdapter {
	return adapter.NewGitHubAdapter(cfg.APIURL, cfg.Token)
}

func (f *adapterFactory) Coverage(cfg CoverageConfig) adapter.CoverageAdapter {
	if cfg.Runner == RunnerJest {
		return adapter.NewJestCoverageAdapter(f.runner, cfg.Command)
	}

	return adapter.NewGoCoverageAdapter(f.runner)
}

func (f *adapterFactory) Watcher(debounce time.Duration, accept func(path string) bool) adapter.WatchAdapter {
	return adapter.NewFSNotifyWatchAdapter(debounce, accept)
}

func (f *adapterFactory) Metrics() adapter.Metrics {
	return adapter.NewPrometheusMetrics()
}
