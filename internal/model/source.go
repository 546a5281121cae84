package model

import (
	"fmt"
	"strings"
)

// Path represents a file system path.
type Path string

// LineRange is a 1-based, inclusive span of source lines.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// NewLineRange builds a LineRange, swapping the bounds when given in reverse.
func NewLineRange(start, end int) LineRange {
	if end < start {
		start, end = end, start
	}

	return LineRange{Start: start, End: end}
}

// Overlaps reports whether r and other share at least one line.
func (r LineRange) Overlaps(other LineRange) bool {
	return r.Start <= other.End && r.End >= other.Start
}

// Valid reports whether the range points at real source lines.
func (r LineRange) Valid() bool {
	return r.Start >= 1 && r.Start <= r.End
}

func (r LineRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("L%d", r.Start)
	}

	return fmt.Sprintf("L%d-L%d", r.Start, r.End)
}

// DeclarationKind categorizes a top-level declaration.
type DeclarationKind string

const (
	// KindFunction covers functions and methods.
	KindFunction DeclarationKind = "function"
	// KindClass covers classes and, for Go, named type declarations.
	KindClass DeclarationKind = "class"
)

// Declaration is a top-level function or class found in one file.
type Declaration struct {
	Kind DeclarationKind `json:"kind" yaml:"kind"`
	// Name is empty for anonymous declarations.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Identifier is Name, or the kind label when the declaration is anonymous.
	// It is the dedup key for generated tests.
	Identifier string    `json:"identifier" yaml:"identifier"`
	Range      LineRange `json:"range" yaml:"range"`
}

// NewDeclaration builds a Declaration and computes its identifier once.
func NewDeclaration(kind DeclarationKind, name string, rng LineRange) Declaration {
	identifier := name
	if identifier == "" {
		identifier = string(kind)
	}

	return Declaration{
		Kind:       kind,
		Name:       name,
		Identifier: identifier,
		Range:      rng,
	}
}

// Anonymous reports whether the declaration has no name.
func (d Declaration) Anonymous() bool {
	return d.Name == ""
}

// DisplayName returns the name, or "(anonymous)" for unnamed declarations.
func (d Declaration) DisplayName() string {
	if d.Anonymous() {
		return "(anonymous)"
	}

	return d.Name
}

// Snippet returns the lines of source covered by the declaration.
func (d Declaration) Snippet(source string) string {
	if !d.Range.Valid() {
		return source
	}

	lines := strings.Split(source, "\n")
	if d.Range.Start > len(lines) {
		return ""
	}

	end := d.Range.End
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[d.Range.Start-1:end], "\n")
}
