package adapter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

var (
	// ErrUnsupportedLanguage is returned for files no parser is registered for.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrSyntax is returned when a file parses with syntax errors.
	ErrSyntax = errors.New("source contains syntax errors")
)

// ScriptFileAdapter extracts top-level declarations from JavaScript and
// TypeScript sources using tree-sitter grammars.
type ScriptFileAdapter interface {
	DeclarationParser

	// Supports reports whether a grammar is registered for the extension.
	Supports(ext string) bool
}

// TreeSitterScriptAdapter is the tree-sitter backed ScriptFileAdapter.
type TreeSitterScriptAdapter struct {
	languages map[string]*sitter.Language
}

// NewTreeSitterScriptAdapter registers the JavaScript, TypeScript and TSX grammars.
func NewTreeSitterScriptAdapter() *TreeSitterScriptAdapter {
	js := javascript.GetLanguage()
	ts := typescript.GetLanguage()

	return &TreeSitterScriptAdapter{
		languages: map[string]*sitter.Language{
			".js":  js,
			".jsx": js,
			".mjs": js,
			".cjs": js,
			".ts":  ts,
			".mts": ts,
			".cts": ts,
			".tsx": tsx.GetLanguage(),
		},
	}
}

// Supports reports whether ext (with leading dot) has a grammar.
func (a *TreeSitterScriptAdapter) Supports(ext string) bool {
	_, ok := a.languages[strings.ToLower(ext)]
	return ok
}

// Declarations parses src and returns its module-scope functions and classes.
func (a *TreeSitterScriptAdapter) Declarations(ctx context.Context, path m.Path, src []byte) ([]m.Declaration, error) {
	lang, ok := a.languages[strings.ToLower(filepath.Ext(string(path)))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	// parsers are not safe for concurrent use, so one per call
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("parse %s: %w", path, ErrSyntax)
	}

	var decls []m.Declaration

	for i := 0; i < int(root.NamedChildCount()); i++ {
		decls = append(decls, topLevel(root.NamedChild(i), src)...)
	}

	return decls, nil
}

func topLevel(node *sitter.Node, src []byte) []m.Declaration {
	switch node.Type() {
	case "export_statement":
		return exported(node, src)
	case "function_declaration", "generator_function_declaration":
		return []m.Declaration{declare(m.KindFunction, node, node, src)}
	case "class_declaration", "abstract_class_declaration":
		return []m.Declaration{declare(m.KindClass, node, node, src)}
	case "lexical_declaration", "variable_declaration":
		return assigned(node, node, src)
	default:
		return nil
	}
}

// exported unwraps `export ...` and `export default ...`. The range covers the
// whole statement so edits to the export keyword still count.
func exported(stmt *sitter.Node, src []byte) []m.Declaration {
	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "function_declaration", "generator_function_declaration":
			return []m.Declaration{declare(m.KindFunction, decl, stmt, src)}
		case "class_declaration", "abstract_class_declaration":
			return []m.Declaration{declare(m.KindClass, decl, stmt, src)}
		case "lexical_declaration", "variable_declaration":
			return assigned(decl, stmt, src)
		}
	}

	value := stmt.ChildByFieldName("value")
	if value == nil {
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			if kind, ok := expressionKind(child.Type()); ok {
				return []m.Declaration{declare(kind, child, stmt, src)}
			}
		}

		return nil
	}

	if kind, ok := expressionKind(value.Type()); ok {
		return []m.Declaration{declare(kind, value, stmt, src)}
	}

	return nil
}

// assigned handles `const name = () => {}` and friends.
func assigned(decl, span *sitter.Node, src []byte) []m.Declaration {
	var decls []m.Declaration

	for i := 0; i < int(decl.NamedChildCount()); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}

		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}

		kind, ok := expressionKind(value.Type())
		if !ok {
			continue
		}

		name := ""
		if id := declarator.ChildByFieldName("name"); id != nil && id.Type() == "identifier" {
			name = id.Content(src)
		}

		decls = append(decls, m.NewDeclaration(kind, name, nodeRange(span)))
	}

	return decls
}

func expressionKind(nodeType string) (m.DeclarationKind, bool) {
	switch nodeType {
	case "function", "function_expression", "arrow_function", "generator_function":
		return m.KindFunction, true
	case "class":
		return m.KindClass, true
	default:
		return "", false
	}
}

func declare(kind m.DeclarationKind, named, span *sitter.Node, src []byte) m.Declaration {
	name := ""
	if id := named.ChildByFieldName("name"); id != nil {
		name = id.Content(src)
	}

	return m.NewDeclaration(kind, name, nodeRange(span))
}

func nodeRange(node *sitter.Node) m.LineRange {
	return m.NewLineRange(int(node.StartPoint().Row)+1, int(node.EndPoint().Row)+1)
}
