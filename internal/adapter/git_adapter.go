package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// Author is the identity recorded on generated commits.
type Author struct {
	Name  string
	Email string
}

// GitAdapter wraps the git binary operations the workflow needs.
//
//nolint:interfacebloat // mirrors the git subcommands one-to-one.
type GitAdapter interface {
	// NameStatus lists files that differ between two revisions, renames split
	// into a delete and an add.
	NameStatus(ctx context.Context, dir m.Path, prev, curr string) ([]m.ChangeRecord, error)

	// WorkingTreeStatus lists uncommitted changes against HEAD plus untracked
	// files, which are reported as added.
	WorkingTreeStatus(ctx context.Context, dir m.Path) ([]m.ChangeRecord, error)

	// FileDiff returns the zero-context unified diff of one file between revisions.
	FileDiff(ctx context.Context, dir m.Path, prev, curr string, file m.Path) (string, error)

	// WorkingTreeDiff returns the zero-context unified diff of one file against HEAD.
	WorkingTreeDiff(ctx context.Context, dir m.Path, file m.Path) (string, error)

	// CreateBranch creates and checks out branch, or checks it out if it exists.
	CreateBranch(ctx context.Context, dir m.Path, branch string) error

	// CommitAll stages every change and commits it as author.
	CommitAll(ctx context.Context, dir m.Path, message string, author Author) error

	// Push pushes branch to remote.
	Push(ctx context.Context, dir m.Path, remote, branch string) error

	// RemoteURL returns the fetch URL configured for remote.
	RemoteURL(ctx context.Context, dir m.Path, remote string) (string, error)
}

// LocalGitAdapter shells out to the git binary found on PATH.
type LocalGitAdapter struct {
	binary  string
	timeout time.Duration
}

// NewLocalGitAdapter constructs a LocalGitAdapter with a 60s per-command timeout.
func NewLocalGitAdapter() *LocalGitAdapter {
	return &LocalGitAdapter{
		binary:  "git",
		timeout: 60 * time.Second,
	}
}

// NameStatus runs `git diff --name-status --no-renames --relative prev curr`.
// Paths are relative to dir, which may sit below the repository top level.
func (a *LocalGitAdapter) NameStatus(ctx context.Context, dir m.Path, prev, curr string) ([]m.ChangeRecord, error) {
	out, err := a.run(ctx, dir, "diff", "--name-status", "--no-renames", "--relative", prev, curr)
	if err != nil {
		return nil, fmt.Errorf("list changes %s..%s: %w", prev, curr, err)
	}

	return ParseNameStatus(out), nil
}

// WorkingTreeStatus combines tracked changes against HEAD with untracked files.
func (a *LocalGitAdapter) WorkingTreeStatus(ctx context.Context, dir m.Path) ([]m.ChangeRecord, error) {
	out, err := a.run(ctx, dir, "diff", "--name-status", "--no-renames", "--relative", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("list working tree changes: %w", err)
	}

	records := ParseNameStatus(out)

	untracked, err := a.run(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("list untracked files: %w", err)
	}

	for _, line := range strings.Split(untracked, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		records = append(records, m.ChangeRecord{Status: m.StatusAdded, FilePath: m.Path(line)})
	}

	return records, nil
}

// FileDiff runs `git diff -U0 --no-color --relative prev curr -- file`.
func (a *LocalGitAdapter) FileDiff(ctx context.Context, dir m.Path, prev, curr string, file m.Path) (string, error) {
	out, err := a.run(ctx, dir, "diff", "-U0", "--no-color", "--relative", prev, curr, "--", string(file))
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", file, err)
	}

	return out, nil
}

// WorkingTreeDiff runs `git diff -U0 --no-color --relative HEAD -- file`.
func (a *LocalGitAdapter) WorkingTreeDiff(ctx context.Context, dir m.Path, file m.Path) (string, error) {
	out, err := a.run(ctx, dir, "diff", "-U0", "--no-color", "--relative", "HEAD", "--", string(file))
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", file, err)
	}

	return out, nil
}

// CreateBranch runs `git checkout -b`, falling back to a plain checkout.
func (a *LocalGitAdapter) CreateBranch(ctx context.Context, dir m.Path, branch string) error {
	if _, err := a.run(ctx, dir, "checkout", "-b", branch); err != nil {
		slog.Debug("Branch creation failed, switching to existing branch", "branch", branch, "error", err)

		if _, err := a.run(ctx, dir, "checkout", branch); err != nil {
			return fmt.Errorf("checkout %s: %w", branch, err)
		}
	}

	return nil
}

// CommitAll runs `git add -A` followed by a commit with an explicit identity.
func (a *LocalGitAdapter) CommitAll(ctx context.Context, dir m.Path, message string, author Author) error {
	if _, err := a.run(ctx, dir, "add", "-A"); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	var args []string
	if author.Name != "" {
		args = append(args, "-c", "user.name="+author.Name)
	}

	if author.Email != "" {
		args = append(args, "-c", "user.email="+author.Email)
	}

	args = append(args, "commit", "-m", message)

	if _, err := a.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Push runs `git push remote branch`.
func (a *LocalGitAdapter) Push(ctx context.Context, dir m.Path, remote, branch string) error {
	if _, err := a.run(ctx, dir, "push", remote, branch); err != nil {
		return fmt.Errorf("push %s to %s: %w", branch, remote, err)
	}

	return nil
}

// RemoteURL runs `git remote get-url remote`.
func (a *LocalGitAdapter) RemoteURL(ctx context.Context, dir m.Path, remote string) (string, error) {
	out, err := a.run(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("get url of remote %s: %w", remote, err)
	}

	return strings.TrimSpace(out), nil
}

func (a *LocalGitAdapter) run(ctx context.Context, dir m.Path, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// #nosec G204 - arguments are built by this adapter, not taken from a shell
	cmd := exec.CommandContext(ctx, a.binary, args...)
	cmd.Dir = string(dir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// ParseNameStatus parses `git diff --name-status` output, preserving git's order.
// Type changes count as modifications; unknown codes are skipped.
func ParseNameStatus(out string) []m.ChangeRecord {
	var records []m.ChangeRecord

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		code, path, ok := strings.Cut(line, "\t")
		if !ok || code == "" {
			continue
		}

		var status m.ChangeStatus

		switch code[0] {
		case 'A':
			status = m.StatusAdded
		case 'M', 'T':
			status = m.StatusModified
		case 'D':
			status = m.StatusDeleted
		default:
			slog.Debug("Skipping unsupported name-status entry", "code", code, "path", path)

			continue
		}

		records = append(records, m.ChangeRecord{Status: status, FilePath: m.Path(path)})
	}

	return records
}
