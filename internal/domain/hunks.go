package domain

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/sourcegraph/go-diff/diff"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

var hunkHeader = regexp.MustCompile(`(?m)^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ExtractHunks returns the line spans a unified diff touches in the new version
// of the file. A hunk whose new count is zero is handled by policy.
func ExtractHunks(text string, policy ZeroCountPolicy) []m.LineRange {
	if text == "" {
		return nil
	}

	var ranges []m.LineRange

	for _, hunk := range parseHunks(text) {
		if rng, ok := hunkRange(int(hunk.NewStartLine), int(hunk.NewLines), policy); ok {
			ranges = append(ranges, rng)
		}
	}

	return ranges
}

// parseHunks accepts full git output and bare hunk lists. Headers the
// parser rejects are recovered with a plain header scan.
func parseHunks(text string) []*diff.Hunk {
	data := []byte(text)

	if files, err := diff.ParseMultiFileDiff(data); err == nil {
		var hunks []*diff.Hunk
		for _, file := range files {
			hunks = append(hunks, file.Hunks...)
		}

		if len(hunks) > 0 {
			return hunks
		}
	}

	if hunks, err := diff.ParseHunks(data); err == nil && len(hunks) > 0 {
		return hunks
	} else if err != nil {
		slog.Debug("Falling back to header scan", "error", err)
	}

	return scanHeaders(text)
}

func scanHeaders(text string) []*diff.Hunk {
	var hunks []*diff.Hunk

	for _, match := range hunkHeader.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		count := 1
		if match[2] != "" {
			if count, err = strconv.Atoi(match[2]); err != nil {
				continue
			}
		}

		hunks = append(hunks, &diff.Hunk{NewStartLine: int32(start), NewLines: int32(count)})
	}

	return hunks
}

func hunkRange(start, count int, policy ZeroCountPolicy) (m.LineRange, bool) {
	if count > 0 {
		return m.LineRange{Start: start, End: start + count - 1}, true
	}

	if policy == ZeroCountSkip {
		return m.LineRange{}, false
	}

	// git anchors a deletion at the line before it, which is 0 at the top of the file.
	line := max(start, 1)

	return m.LineRange{Start: line, End: line}, true
}
