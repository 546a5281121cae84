package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

const reportPrefix = "coverage-"

// ReportStore archives coverage snapshots between runs.
type ReportStore interface {
	SaveSnapshot(ctx context.Context, dir m.Path, runID string, snapshot m.CoverageSnapshot) (m.Path, error)
	LoadSnapshots(ctx context.Context, dir m.Path) ([]m.CoverageRecord, error)
}

// LocalReportStore keeps one JSON file per snapshot.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

// SaveSnapshot writes <dir>/coverage-<timestamp>-<runID>.json.
func (s *LocalReportStore) SaveSnapshot(ctx context.Context, dir m.Path, runID string, snapshot m.CoverageSnapshot) (m.Path, error) {
	if err := s.fs.MkdirAll(ctx, dir); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(m.CoverageRecord{RunID: runID, Snapshot: snapshot}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode coverage snapshot: %w", err)
	}

	name := fmt.Sprintf("%s%s-%s.json", reportPrefix, snapshot.MeasuredAt.UTC().Format("20060102T150405.000000000Z"), runID)
	path := s.fs.JoinPath(ctx, string(dir), name)

	if err := s.fs.WriteFile(ctx, path, data, 0o600); err != nil {
		return "", fmt.Errorf("write coverage snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshots reads every archived snapshot, oldest first. Unreadable files
// are skipped. A missing directory yields no records.
func (s *LocalReportStore) LoadSnapshots(ctx context.Context, dir m.Path) ([]m.CoverageRecord, error) {
	var records []m.CoverageRecord

	if _, err := s.fs.FileInfo(ctx, dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("stat reports directory: %w", err)
	}

	err := s.fs.Walk(ctx, dir, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := filepath.Base(path)
		if info.IsDir() || !strings.HasPrefix(name, reportPrefix) || filepath.Ext(name) != ".json" {
			return nil
		}

		data, err := s.fs.ReadFile(ctx, m.Path(path))
		if err != nil {
			slog.Warn("Failed to read coverage report", "path", path, "error", err)
			return nil
		}

		var record m.CoverageRecord
		if err := json.Unmarshal(data, &record); err != nil {
			slog.Warn("Failed to decode coverage report", "path", path, "error", err)
			return nil
		}

		record.Path = m.Path(path)
		records = append(records, record)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list coverage reports: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Snapshot.MeasuredAt.Before(records[j].Snapshot.MeasuredAt)
	})

	return records, nil
}
