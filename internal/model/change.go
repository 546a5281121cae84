// Package model defines the data structures shared by the change-impact
// pipeline and the orchestration loop.
package model

// ChangeStatus is the kind of change a file went through between two revisions.
type ChangeStatus string

const (
	// StatusAdded marks a new or untracked file.
	StatusAdded ChangeStatus = "A"
	// StatusModified marks a file whose content changed.
	StatusModified ChangeStatus = "M"
	// StatusDeleted marks a file that no longer exists in the current revision.
	StatusDeleted ChangeStatus = "D"
)

func (s ChangeStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangeRecord is one changed file reported by a revision comparison.
type ChangeRecord struct {
	Status   ChangeStatus `json:"status" yaml:"status"`
	FilePath Path         `json:"file_path" yaml:"file_path"`
}

// FileChange is a ChangeRecord augmented with its zero-context diff and the
// file's current content. Both payloads stay empty for deleted files.
type FileChange struct {
	ChangeRecord
	Diff    string
	Content string
}
