package model

// WriteMode selects how generated test code is persisted.
type WriteMode int

const (
	// WriteAppend merges into the existing test file, skipping known markers.
	WriteAppend WriteMode = iota
	// WriteOverwrite replaces the generated test file.
	WriteOverwrite
)

func (w WriteMode) String() string {
	if w == WriteOverwrite {
		return "overwrite"
	}

	return "append"
}

// MutationIdentifier keys supplementary tests produced by a mutation pass.
const MutationIdentifier = "mutation"

// TestSnippet is generated test code for one declaration (or a mutation pass)
// of one source file.
type TestSnippet struct {
	FilePath   Path
	Identifier string
	Code       string
}
