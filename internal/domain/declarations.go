package domain

import (
	"context"
	"log/slog"
	"path/filepath"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// DeclarationExtractor lists the top-level declarations of a source file.
// Parse failures degrade to an empty list.
type DeclarationExtractor interface {
	Extract(ctx context.Context, path m.Path, src []byte) []m.Declaration
	Supports(path m.Path) bool
}

type declarationExtractor struct {
	golang adapter.GoFileAdapter
	script adapter.ScriptFileAdapter
}

// NewDeclarationExtractor dispatches Go sources to goAdapter and everything
// else to scriptAdapter.
func NewDeclarationExtractor(goAdapter adapter.GoFileAdapter, scriptAdapter adapter.ScriptFileAdapter) DeclarationExtractor {
	return &declarationExtractor{golang: goAdapter, script: scriptAdapter}
}

func (e *declarationExtractor) Supports(path m.Path) bool {
	ext := filepath.Ext(string(path))

	return ext == ".go" || e.script.Supports(ext)
}

func (e *declarationExtractor) Extract(ctx context.Context, path m.Path, src []byte) []m.Declaration {
	parser := e.parserFor(path)
	if parser == nil {
		slog.Debug("No parser for file", "path", path)
		return nil
	}

	decls, err := parser.Declarations(ctx, path, src)
	if err != nil {
		slog.Warn("Failed to extract declarations", "path", path, "error", err)
		return nil
	}

	return decls
}

func (e *declarationExtractor) parserFor(path m.Path) adapter.DeclarationParser {
	ext := filepath.Ext(string(path))

	switch {
	case ext == ".go":
		return e.golang
	case e.script.Supports(ext):
		return e.script
	default:
		return nil
	}
}
