package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// DiffOptions selects the comparison a DiffSource performs.
type DiffOptions struct {
	Prev string
	Curr string
	// WorkingTree compares uncommitted changes against HEAD.
	WorkingTree bool
}

// UsesWorkingTree reports whether the options resolve to working-tree mode,
// which is also the case when no revision is given at all.
func (o DiffOptions) UsesWorkingTree() bool {
	return o.WorkingTree || (o.Prev == "" && o.Curr == "")
}

// DiffSource turns a revision comparison into filtered file changes.
type DiffSource interface {
	// Records lists the changed files in the order git reports them.
	Records(ctx context.Context, root m.Path, opts DiffOptions) ([]m.ChangeRecord, error)
	// Changes augments Records with zero-context diffs and current content.
	// Deleted files never carry a payload.
	Changes(ctx context.Context, root m.Path, opts DiffOptions) ([]m.FileChange, error)
}

type diffSource struct {
	git    adapter.GitAdapter
	fs     adapter.SourceFSAdapter
	filter SourceFilter
}

// NewDiffSource constructs a DiffSource reading through git and the filesystem.
func NewDiffSource(git adapter.GitAdapter, fs adapter.SourceFSAdapter, filter SourceFilter) DiffSource {
	return &diffSource{git: git, fs: fs, filter: filter}
}

func (d *diffSource) Records(ctx context.Context, root m.Path, opts DiffOptions) ([]m.ChangeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records []m.ChangeRecord
		err     error
	)

	if opts.UsesWorkingTree() {
		records, err = d.git.WorkingTreeStatus(ctx, root)
	} else {
		records, err = d.git.NameStatus(ctx, root, opts.Prev, opts.Curr)
	}

	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", err)
	}

	filtered := records[:0:0]

	for _, record := range records {
		if d.filter.Match(string(record.FilePath)) {
			filtered = append(filtered, record)
		}
	}

	return filtered, nil
}

func (d *diffSource) Changes(ctx context.Context, root m.Path, opts DiffOptions) ([]m.FileChange, error) {
	records, err := d.Records(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	changes := make([]m.FileChange, 0, len(records))

	for _, record := range records {
		change := m.FileChange{ChangeRecord: record}

		if record.Status != m.StatusDeleted {
			change.Content = d.readContent(ctx, root, record.FilePath)

			change.Diff, err = d.fileDiff(ctx, root, opts, record.FilePath)
			if err != nil {
				return nil, err
			}

			if change.Diff == "" && record.Status == m.StatusAdded {
				change.Diff = synthesizeDiff(record.FilePath, change.Content)
			}
		}

		changes = append(changes, change)
	}

	return changes, nil
}

func (d *diffSource) fileDiff(ctx context.Context, root m.Path, opts DiffOptions, file m.Path) (string, error) {
	var (
		text string
		err  error
	)

	if opts.UsesWorkingTree() {
		text, err = d.git.WorkingTreeDiff(ctx, root, file)
	} else {
		text, err = d.git.FileDiff(ctx, root, opts.Prev, opts.Curr, file)
	}

	if err != nil {
		return "", fmt.Errorf("diff %s: %w", file, err)
	}

	return text, nil
}

func (d *diffSource) readContent(ctx context.Context, root, file m.Path) string {
	data, err := d.fs.ReadFile(ctx, d.fs.JoinPath(ctx, string(root), string(file)))
	if err != nil {
		slog.Warn("Failed to read changed file", "path", file, "error", err)
		return ""
	}

	return string(data)
}

// synthesizeDiff renders an all-added hunk for files git has no diff for,
// such as untracked files.
func synthesizeDiff(file m.Path, content string) string {
	if content == "" {
		return ""
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		B:        difflib.SplitLines(content),
		FromFile: "/dev/null",
		ToFile:   "b/" + string(file),
		Context:  0,
	})
	if err != nil {
		slog.Warn("Failed to synthesize diff", "path", file, "error", err)
		return ""
	}

	return text
}

// SourceFilter decides which repository-relative paths are sources.
type SourceFilter struct {
	Prefix     string
	Extensions []string
	Exclude    []string
	TestDir    string
	TestSuffix string
}

// NewSourceFilter builds the filter described by cfg.
func NewSourceFilter(cfg Config) SourceFilter {
	return SourceFilter{
		Prefix:     cfg.Paths.SourceRoot,
		Extensions: cfg.Paths.Extensions,
		Exclude:    cfg.Paths.Exclude,
		TestDir:    cfg.Tests.Dir,
		TestSuffix: cfg.Tests.Suffix,
	}
}

// Match reports whether rel names a source file the pipeline should analyze.
func (f SourceFilter) Match(rel string) bool {
	rel = filepath.ToSlash(rel)

	if !f.underPrefix(rel) || !f.hasExtension(rel) || f.isTest(rel) {
		return false
	}

	for _, pattern := range f.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}

	return true
}

func (f SourceFilter) underPrefix(rel string) bool {
	prefix := strings.Trim(filepath.ToSlash(f.Prefix), "/")
	if prefix == "" || prefix == "." {
		return true
	}

	return rel == prefix || strings.HasPrefix(rel, prefix+"/")
}

func (f SourceFilter) hasExtension(rel string) bool {
	if len(f.Extensions) == 0 {
		return true
	}

	ext := path.Ext(rel)
	for _, allowed := range f.Extensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

func (f SourceFilter) isTest(rel string) bool {
	if strings.HasSuffix(rel, "_test.go") {
		return true
	}

	if f.TestDir != "" {
		for _, segment := range strings.Split(path.Dir(rel), "/") {
			if segment == f.TestDir {
				return true
			}
		}
	}

	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))

	return f.TestSuffix != "" && strings.HasSuffix(stem, f.TestSuffix)
}
