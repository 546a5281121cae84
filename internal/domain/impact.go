package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// ResolveImpact returns, in declaration order, every declaration whose range
// overlaps at least one changed range. Each declaration appears at most once
// and declarations without a usable range are ignored.
func ResolveImpact(changed []m.LineRange, decls []m.Declaration) []m.Declaration {
	var impacted []m.Declaration

	for _, decl := range decls {
		if !decl.Range.Valid() {
			continue
		}

		for _, rng := range changed {
			if rng.Valid() && decl.Range.Overlaps(rng) {
				impacted = append(impacted, decl)
				break
			}
		}
	}

	return impacted
}

// ImpactAnalyzer maps file changes onto impacted declarations.
type ImpactAnalyzer interface {
	// Analyze computes the impacted set of one added or modified file.
	Analyze(ctx context.Context, change m.FileChange) m.ImpactedSet
	// Incremental analyzes every change and keeps the non-empty sets.
	// Deleted files are skipped.
	Incremental(ctx context.Context, changes []m.FileChange) []m.ImpactedSet
	// Bootstrap marks every declaration of every source file under root as impacted.
	Bootstrap(ctx context.Context, root m.Path) ([]m.ImpactedSet, error)
}

type impactAnalyzer struct {
	fs        adapter.SourceFSAdapter
	extractor DeclarationExtractor
	filter    SourceFilter
	zeroCount ZeroCountPolicy
	wholeFile bool
}

// NewImpactAnalyzer constructs an ImpactAnalyzer using the diff policies of cfg.
func NewImpactAnalyzer(fs adapter.SourceFSAdapter, extractor DeclarationExtractor, cfg Config) ImpactAnalyzer {
	return &impactAnalyzer{
		fs:        fs,
		extractor: extractor,
		filter:    NewSourceFilter(cfg),
		zeroCount: cfg.Diff.ZeroCount,
		wholeFile: cfg.Diff.WholeFileFallback,
	}
}

func (a *impactAnalyzer) Analyze(ctx context.Context, change m.FileChange) m.ImpactedSet {
	set := m.ImpactedSet{
		FilePath:      change.FilePath,
		CurrentSource: change.Content,
	}

	if change.Status == m.StatusDeleted {
		return set
	}

	set.ChangedRanges = ExtractHunks(change.Diff, a.zeroCount)
	decls := a.extractor.Extract(ctx, change.FilePath, []byte(change.Content))

	if len(set.ChangedRanges) == 0 && a.wholeFile {
		slog.Debug("No hunks, treating whole file as impacted", "path", change.FilePath)

		set.Declarations = validDeclarations(decls)

		return set
	}

	set.Declarations = ResolveImpact(set.ChangedRanges, decls)

	return set
}

func (a *impactAnalyzer) Incremental(ctx context.Context, changes []m.FileChange) []m.ImpactedSet {
	var sets []m.ImpactedSet

	for _, change := range changes {
		if change.Status == m.StatusDeleted {
			continue
		}

		set := a.Analyze(ctx, change)
		if set.Empty() {
			continue
		}

		slog.Debug("Impacted declarations", "path", set.FilePath, "count", len(set.Declarations))

		sets = append(sets, set)
	}

	return sets
}

func (a *impactAnalyzer) Bootstrap(ctx context.Context, root m.Path) ([]m.ImpactedSet, error) {
	var sets []m.ImpactedSet

	start := a.sourceRoot(ctx, root)
	if _, err := a.fs.FileInfo(ctx, start); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("Source root does not exist", "path", start)
			return nil, nil
		}

		return nil, fmt.Errorf("stat source root: %w", err)
	}

	err := a.fs.Walk(ctx, start, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, relErr := a.fs.RelPath(ctx, root, m.Path(path))
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		if !a.filter.Match(string(rel)) || !a.extractor.Supports(rel) {
			return nil
		}

		data, readErr := a.fs.ReadFile(ctx, m.Path(path))
		if readErr != nil {
			slog.Warn("Failed to read source file", "path", rel, "error", readErr)
			return nil
		}

		decls := validDeclarations(a.extractor.Extract(ctx, rel, data))
		if len(decls) == 0 {
			return nil
		}

		sets = append(sets, m.ImpactedSet{
			FilePath:      rel,
			Declarations:  decls,
			CurrentSource: string(data),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk sources: %w", err)
	}

	return sets, nil
}

func (a *impactAnalyzer) sourceRoot(ctx context.Context, root m.Path) m.Path {
	prefix := strings.Trim(a.filter.Prefix, "/")
	if prefix == "" || prefix == "." {
		return root
	}

	return a.fs.JoinPath(ctx, string(root), prefix)
}

func validDeclarations(decls []m.Declaration) []m.Declaration {
	var valid []m.Declaration

	for _, decl := range decls {
		if decl.Range.Valid() {
			valid = append(valid, decl)
		}
	}

	return valid
}
