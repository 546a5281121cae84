package model

import "time"

// FileCoverage is the line coverage of a single source file.
type FileCoverage struct {
	Path    Path    `json:"path"`
	Covered int64   `json:"covered"`
	Total   int64   `json:"total"`
	Percent float64 `json:"percent"`
}

// CoverageDetails carries the raw totals behind a snapshot.
type CoverageDetails struct {
	Covered int64          `json:"covered"`
	Total   int64          `json:"total"`
	Files   []FileCoverage `json:"files,omitempty"`
	Output  string         `json:"-"`
}

// CoverageSnapshot is one measurement of the suite's line coverage.
// A snapshot without a coverage report has Success=false and Percent=0.
type CoverageSnapshot struct {
	Success    bool            `json:"success"`
	Percent    float64         `json:"coverage_percent"`
	Details    CoverageDetails `json:"details"`
	MeasuredAt time.Time       `json:"measured_at"`
}

// CoverageRecord is a snapshot loaded back from the report archive.
type CoverageRecord struct {
	Path     Path             `json:"-"`
	RunID    string           `json:"run_id"`
	Snapshot CoverageSnapshot `json:"snapshot"`
}
