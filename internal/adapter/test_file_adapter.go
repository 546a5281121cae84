package adapter

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"sync"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

const markerFormat = "/* TEST_FOR: %s */"

// Marker returns the dedup marker embedded above every generated test block.
func Marker(identifier string) string {
	return fmt.Sprintf(markerFormat, identifier)
}

// TestLayout describes where generated tests live relative to their source.
type TestLayout struct {
	// Dir is the test subdirectory created next to the source file.
	Dir string
	// Suffix is inserted between the base name and the extension.
	Suffix string
}

// DefaultTestLayout mirrors the Jest convention `__tests__/<base>.test<ext>`.
func DefaultTestLayout() TestLayout {
	return TestLayout{Dir: "__tests__", Suffix: ".test"}
}

// TestFileAdapter locates and merges generated test files.
type TestFileAdapter interface {
	// Locate maps a source file to its generated test file. Pure and deterministic.
	Locate(source m.Path) m.Path

	// Write stores one snippet. In append mode it is a no-op returning false
	// when the snippet's marker is already present.
	Write(ctx context.Context, root m.Path, snippet m.TestSnippet, mode m.WriteMode) (bool, error)

	// Overwrite replaces the test file for source with all snippets.
	Overwrite(ctx context.Context, root m.Path, source m.Path, snippets []m.TestSnippet) error

	// Read returns the test file content for source, or "" when none exists.
	Read(ctx context.Context, root m.Path, source m.Path) (string, error)

	// Remove deletes the test file for source. It reports whether a file existed.
	Remove(ctx context.Context, root m.Path, source m.Path) (bool, error)
}

// LocalTestFileAdapter writes through a SourceFSAdapter, serializing access per
// target file.
type LocalTestFileAdapter struct {
	fs     SourceFSAdapter
	layout TestLayout

	mu    sync.Mutex
	locks map[m.Path]*sync.Mutex
}

// NewLocalTestFileAdapter constructs a LocalTestFileAdapter.
func NewLocalTestFileAdapter(fs SourceFSAdapter, layout TestLayout) *LocalTestFileAdapter {
	if layout.Dir == "" && layout.Suffix == "" {
		layout = DefaultTestLayout()
	}

	return &LocalTestFileAdapter{
		fs:     fs,
		layout: layout,
		locks:  make(map[m.Path]*sync.Mutex),
	}
}

// Locate returns `<dir>/<layout.Dir>/<base><layout.Suffix><ext>` for scripts and
// `<dir>/<base>_gen_test.go` for Go sources, which must share their package directory.
func (a *LocalTestFileAdapter) Locate(source m.Path) m.Path {
	src := string(source)
	dir := filepath.Dir(src)
	ext := filepath.Ext(src)
	base := strings.TrimSuffix(filepath.Base(src), ext)

	if ext == ".go" {
		return m.Path(filepath.Join(dir, base+"_gen_test.go"))
	}

	return m.Path(filepath.Join(dir, a.layout.Dir, base+a.layout.Suffix+ext))
}

// Write appends or overwrites a single snippet.
func (a *LocalTestFileAdapter) Write(ctx context.Context, root m.Path, snippet m.TestSnippet, mode m.WriteMode) (bool, error) {
	if mode == m.WriteOverwrite {
		if err := a.Overwrite(ctx, root, snippet.FilePath, []m.TestSnippet{snippet}); err != nil {
			return false, err
		}

		return true, nil
	}

	target := a.target(root, snippet.FilePath)

	unlock := a.lock(target)
	defer unlock()

	content, err := a.readTarget(ctx, target)
	if err != nil {
		return false, err
	}

	if strings.Contains(content, Marker(snippet.Identifier)) {
		return false, nil
	}

	if content == "" {
		content = a.header(ctx, root, snippet.FilePath)
	}

	content += block(snippet)

	if err := a.writeTarget(ctx, target, content); err != nil {
		return false, err
	}

	return true, nil
}

// Overwrite replaces the target file with one marked block per snippet.
func (a *LocalTestFileAdapter) Overwrite(ctx context.Context, root m.Path, source m.Path, snippets []m.TestSnippet) error {
	target := a.target(root, source)

	unlock := a.lock(target)
	defer unlock()

	var sb strings.Builder

	sb.WriteString(a.header(ctx, root, source))

	seen := make(map[string]struct{}, len(snippets))
	for _, snippet := range snippets {
		if _, dup := seen[snippet.Identifier]; dup {
			continue
		}

		seen[snippet.Identifier] = struct{}{}

		sb.WriteString(block(snippet))
	}

	return a.writeTarget(ctx, target, sb.String())
}

// Read returns the generated test file content.
func (a *LocalTestFileAdapter) Read(ctx context.Context, root m.Path, source m.Path) (string, error) {
	target := a.target(root, source)

	unlock := a.lock(target)
	defer unlock()

	return a.readTarget(ctx, target)
}

// Remove deletes the generated test file when present.
func (a *LocalTestFileAdapter) Remove(ctx context.Context, root m.Path, source m.Path) (bool, error) {
	target := a.target(root, source)

	unlock := a.lock(target)
	defer unlock()

	if _, err := a.fs.FileInfo(ctx, target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("stat test file %s: %w", target, err)
	}

	if err := a.fs.Remove(ctx, target); err != nil {
		return false, fmt.Errorf("remove test file %s: %w", target, err)
	}

	return true, nil
}

func (a *LocalTestFileAdapter) target(root, source m.Path) m.Path {
	return a.fs.JoinPath(context.Background(), string(root), string(a.Locate(source)))
}

func (a *LocalTestFileAdapter) lock(target m.Path) func() {
	a.mu.Lock()

	l, ok := a.locks[target]
	if !ok {
		l = &sync.Mutex{}
		a.locks[target] = l
	}

	a.mu.Unlock()

	l.Lock()

	return l.Unlock
}

func (a *LocalTestFileAdapter) readTarget(ctx context.Context, target m.Path) (string, error) {
	data, err := a.fs.ReadFile(ctx, target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("read test file %s: %w", target, err)
	}

	return string(data), nil
}

func (a *LocalTestFileAdapter) writeTarget(ctx context.Context, target m.Path, content string) error {
	if err := a.fs.MkdirAll(ctx, m.Path(filepath.Dir(string(target)))); err != nil {
		return fmt.Errorf("create test directory for %s: %w", target, err)
	}

	if err := a.fs.WriteFile(ctx, target, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write test file %s: %w", target, err)
	}

	return nil
}

// header starts a new Go test file with the package clause of its source.
// Script test files need no header.
func (a *LocalTestFileAdapter) header(ctx context.Context, root, source m.Path) string {
	if filepath.Ext(string(source)) != ".go" {
		return ""
	}

	pkg := filepath.Base(filepath.Dir(string(source)))

	data, err := a.fs.ReadFile(ctx, a.fs.JoinPath(ctx, string(root), string(source)))
	if err == nil {
		if file, perr := parser.ParseFile(token.NewFileSet(), string(source), data, parser.PackageClauseOnly); perr == nil {
			pkg = file.Name.Name
		}
	}

	return "package " + pkg + "\n"
}

func block(snippet m.TestSnippet) string {
	return "\n\n" + Marker(snippet.Identifier) + "\n" + strings.TrimRight(snippet.Code, "\n") + "\n"
}
