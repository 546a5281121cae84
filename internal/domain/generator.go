package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// TestGenerator requests test code for impacted declarations and merges it
// into the generated test files. Every write has completed when a method returns.
type TestGenerator interface {
	// Generate requests one snippet per impacted declaration. Overwrite mode
	// replaces each file's generated tests with the snippets of this pass.
	Generate(ctx context.Context, root m.Path, sets []m.ImpactedSet, mode m.WriteMode) (int, error)
	// Mutate requests supplementary tests for every impacted file.
	Mutate(ctx context.Context, root m.Path, sets []m.ImpactedSet, coverage float64, iteration int) (int, error)
}

type testGenerator struct {
	generator adapter.GeneratorAdapter
	testFiles adapter.TestFileAdapter
	metrics   adapter.Metrics
	parallel  int
}

// NewTestGenerator constructs a TestGenerator running at most parallel
// generation requests at once.
func NewTestGenerator(generator adapter.GeneratorAdapter, testFiles adapter.TestFileAdapter, metrics adapter.Metrics, parallel int) TestGenerator {
	if parallel < 1 {
		parallel = 1
	}

	return &testGenerator{
		generator: generator,
		testFiles: testFiles,
		metrics:   metrics,
		parallel:  parallel,
	}
}

// MutationIdentifier keys the snippet of a mutation pass. Later passes get a
// numbered identifier so their tests are not dropped as duplicates.
func MutationIdentifier(iteration int) string {
	if iteration <= 1 {
		return m.MutationIdentifier
	}

	return fmt.Sprintf("%s-%d", m.MutationIdentifier, iteration)
}

func (g *testGenerator) Generate(ctx context.Context, root m.Path, sets []m.ImpactedSet, mode m.WriteMode) (int, error) {
	var (
		mu      sync.Mutex
		byFile  = make(map[m.Path][]m.TestSnippet)
		written atomic.Int64
		group   errgroup.Group
	)

	group.SetLimit(g.parallel)

	for _, set := range sets {
		for _, decl := range set.Declarations {
			group.Go(func() error {
				snippet, ok := g.declarationSnippet(ctx, set, decl)
				if !ok {
					return nil
				}

				if mode == m.WriteOverwrite {
					mu.Lock()
					byFile[set.FilePath] = append(byFile[set.FilePath], snippet)
					mu.Unlock()

					return nil
				}

				if g.write(ctx, root, snippet) {
					written.Add(1)
				}

				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return int(written.Load()), err
	}

	if err := ctx.Err(); err != nil {
		return int(written.Load()), err
	}

	// Overwrites are combined per file after all requests returned, so the
	// file holds every declaration of this pass in source order.
	for _, set := range sets {
		snippets := ordered(set, byFile[set.FilePath])
		if len(snippets) == 0 {
			continue
		}

		if err := g.testFiles.Overwrite(ctx, root, set.FilePath, snippets); err != nil {
			return int(written.Load()), fmt.Errorf("overwrite tests for %s: %w", set.FilePath, err)
		}

		written.Add(int64(len(snippets)))
	}

	return int(written.Load()), nil
}

func (g *testGenerator) Mutate(ctx context.Context, root m.Path, sets []m.ImpactedSet, coverage float64, iteration int) (int, error) {
	var (
		written atomic.Int64
		group   errgroup.Group
	)

	group.SetLimit(g.parallel)

	identifier := MutationIdentifier(iteration)

	for _, set := range sets {
		group.Go(func() error {
			existing, err := g.testFiles.Read(ctx, root, set.FilePath)
			if err != nil {
				slog.Warn("Failed to read existing tests", "path", set.FilePath, "error", err)
			}

			code, err := g.generator.GenerateMutation(ctx, adapter.MutationRequest{
				FilePath:        set.FilePath,
				CoveragePercent: coverage,
				ExistingTests:   existing,
			})
			if err != nil {
				g.metrics.GenerationRequest(adapter.KindMutation, adapter.ResultError)
				slog.Warn("Failed to generate mutation tests", "path", set.FilePath, "iteration", iteration, "error", err)

				return nil
			}

			g.metrics.GenerationRequest(adapter.KindMutation, adapter.ResultOK)

			snippet := m.TestSnippet{FilePath: set.FilePath, Identifier: identifier, Code: code}
			if g.write(ctx, root, snippet) {
				written.Add(1)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return int(written.Load()), err
	}

	return int(written.Load()), ctx.Err()
}

func (g *testGenerator) declarationSnippet(ctx context.Context, set m.ImpactedSet, decl m.Declaration) (m.TestSnippet, bool) {
	code, err := g.generator.GenerateForDeclaration(ctx, adapter.DeclarationRequest{
		FilePath:    set.FilePath,
		Declaration: decl,
		Snippet:     decl.Snippet(set.CurrentSource),
	})
	if err != nil {
		g.metrics.GenerationRequest(adapter.KindDeclaration, adapter.ResultError)
		slog.Warn("Failed to generate tests", "path", set.FilePath, "declaration", decl.Identifier, "error", err)

		return m.TestSnippet{}, false
	}

	g.metrics.GenerationRequest(adapter.KindDeclaration, adapter.ResultOK)

	return m.TestSnippet{FilePath: set.FilePath, Identifier: decl.Identifier, Code: code}, true
}

func (g *testGenerator) write(ctx context.Context, root m.Path, snippet m.TestSnippet) bool {
	ok, err := g.testFiles.Write(ctx, root, snippet, m.WriteAppend)
	if err != nil {
		slog.Warn("Failed to write tests", "path", snippet.FilePath, "identifier", snippet.Identifier, "error", err)
		return false
	}

	if !ok {
		slog.Debug("Tests already present", "path", snippet.FilePath, "identifier", snippet.Identifier)
	}

	return ok
}

// ordered sorts snippets into the declaration order of set.
func ordered(set m.ImpactedSet, snippets []m.TestSnippet) []m.TestSnippet {
	if len(snippets) == 0 {
		return nil
	}

	byID := make(map[string]m.TestSnippet, len(snippets))
	for _, snippet := range snippets {
		byID[snippet.Identifier] = snippet
	}

	result := make([]m.TestSnippet, 0, len(snippets))

	for _, decl := range set.Declarations {
		if snippet, ok := byID[decl.Identifier]; ok {
			result = append(result, snippet)
			delete(byID, decl.Identifier)
		}
	}

	return result
}
