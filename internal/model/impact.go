package model

// ImpactedSet holds the declarations of one file touched by a change.
type ImpactedSet struct {
	FilePath      Path          `json:"file_path" yaml:"file_path"`
	Declarations  []Declaration `json:"declarations" yaml:"declarations"`
	ChangedRanges []LineRange   `json:"changed_ranges" yaml:"changed_ranges"`
	CurrentSource string        `json:"-" yaml:"-"`
}

// Empty reports whether no declaration was impacted.
func (s ImpactedSet) Empty() bool {
	return len(s.Declarations) == 0
}

// CountDeclarations sums the impacted declarations across sets.
func CountDeclarations(sets []ImpactedSet) int {
	total := 0
	for _, set := range sets {
		total += len(set.Declarations)
	}

	return total
}
