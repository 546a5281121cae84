package model

import "time"

// Mode selects how a run discovers impacted declarations.
type Mode string

const (
	// ModeBootstrap treats every declaration in the project as impacted.
	ModeBootstrap Mode = "bootstrap"
	// ModeIncremental derives impact from a diff.
	ModeIncremental Mode = "incremental"
)

// State is a node of the orchestration state machine.
type State string

// Orchestration states.
const (
	StateBootstrap   State = "bootstrap"
	StateIncremental State = "incremental"
	StateGenerating  State = "generating"
	StateMeasuring   State = "measuring"
	StateConverging  State = "converging"
	StatePublishing  State = "publishing"
	StateDone        State = "done"
)

// Status is the terminal outcome of a run.
type Status string

const (
	// StatusDone means the threshold was met on the first measurement.
	StatusDone Status = "done"
	// StatusDoneAfterMutation means the threshold was met after one or more mutation passes.
	StatusDoneAfterMutation Status = "done_after_mutation"
	// StatusCoverageNotMet means the iteration budget ran out below the threshold.
	StatusCoverageNotMet Status = "coverage_not_met"
)

// Met reports whether the status reflects a met threshold.
func (s Status) Met() bool {
	return s == StatusDone || s == StatusDoneAfterMutation
}

// PullRequest references a pull request opened by the publisher.
type PullRequest struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Head   string `json:"head"`
	Base   string `json:"base"`
}

// Outcome is the structured result returned by every run.
type Outcome struct {
	RunID           string       `json:"run_id"`
	Mode            Mode         `json:"mode"`
	Status          Status       `json:"status"`
	CoveragePercent float64      `json:"coverage_percent"`
	Measurements    int          `json:"measurements"`
	Branch          string       `json:"branch,omitempty"`
	PR              *PullRequest `json:"pr,omitempty"`
}

// Run binds the inputs and observations of one orchestration invocation.
// It lives only for the duration of that invocation.
type Run struct {
	ID           string
	Mode         Mode
	PrevRevision string
	CurrRevision string
	WorkingTree  bool
	StartedAt    time.Time
	Changes      []ChangeRecord
	Impacted     []ImpactedSet
	Snapshots    []CoverageSnapshot
}

// LastSnapshot returns the most recent measurement, if any.
func (r *Run) LastSnapshot() (CoverageSnapshot, bool) {
	if len(r.Snapshots) == 0 {
		return CoverageSnapshot{}, false
	}

	return r.Snapshots[len(r.Snapshots)-1], true
}
