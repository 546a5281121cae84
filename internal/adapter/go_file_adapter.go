package adapter

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// DeclarationParser turns one source file into its top-level declarations.
type DeclarationParser interface {
	// Declarations parses src (the content of path) and returns its top-level
	// functions and classes in source order.
	Declarations(ctx context.Context, path m.Path, src []byte) ([]m.Declaration, error)
}

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can map
// changed lines onto declarations without depending on go/ast directly.
type GoFileAdapter interface {
	DeclarationParser

	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// ExtractDeclarations inspects an AST and returns top-level functions,
	// methods and named types.
	ExtractDeclarations(fileSet *token.FileSet, file *ast.File) []m.Declaration
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.SkipObjectResolution)
}

// Declarations parses src and extracts its top-level declarations.
func (a *LocalGoFileAdapter) Declarations(ctx context.Context, path m.Path, src []byte) ([]m.Declaration, error) {
	fset := token.NewFileSet()

	file, err := a.Parse(ctx, fset, string(path), src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return a.ExtractDeclarations(fset, file), nil
}

// ExtractDeclarations records functions (methods as Recv.Name) and named types.
// A grouped type block yields one declaration per TypeSpec.
func (a *LocalGoFileAdapter) ExtractDeclarations(fileSet *token.FileSet, file *ast.File) []m.Declaration {
	var decls []m.Declaration

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			decls = append(decls, m.NewDeclaration(
				m.KindFunction,
				funcName(d),
				lineRange(fileSet, d.Pos(), d.End()),
			))

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}

			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				start, end := ts.Pos(), ts.End()
				if !d.Lparen.IsValid() {
					start, end = d.Pos(), d.End()
				}

				decls = append(decls, m.NewDeclaration(m.KindClass, ts.Name.Name, lineRange(fileSet, start, end)))
			}
		}
	}

	return decls
}

func funcName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return d.Name.Name
	}

	if recv := receiverType(d.Recv.List[0].Type); recv != "" {
		return recv + "." + d.Name.Name
	}

	return d.Name.Name
}

func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverType(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverType(t.X)
	case *ast.IndexListExpr:
		return receiverType(t.X)
	default:
		return ""
	}
}

func lineRange(fileSet *token.FileSet, start, end token.Pos) m.LineRange {
	return m.NewLineRange(fileSet.Position(start).Line, fileSet.Position(end).Line)
}
