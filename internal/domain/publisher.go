package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

// ErrMissingCredentials is returned when a pull request would be opened
// without an API token.
var ErrMissingCredentials = errors.New("missing publishing credentials")

// BranchPrefix namespaces the branches created by the publisher.
const BranchPrefix = "auto/tests/"

// Publication is what a successful publish produced.
type Publication struct {
	Branch string
	PR     *m.PullRequest
}

// Publisher commits the generated tests to a new branch and proposes them.
type Publisher interface {
	Publish(ctx context.Context, root m.Path, status m.Status, coverage float64) (Publication, error)
}

type publisher struct {
	git     adapter.GitAdapter
	pulls   adapter.PullRequestAdapter
	cfg     PublishConfig
	newName func() string
}

// NewPublisher constructs a Publisher. pulls may be nil when pull requests
// are not wanted.
func NewPublisher(git adapter.GitAdapter, pulls adapter.PullRequestAdapter, cfg PublishConfig) Publisher {
	return &publisher{
		git:     git,
		pulls:   pulls,
		cfg:     cfg,
		newName: BranchName,
	}
}

// BranchName returns a new time ordered branch name.
func BranchName() string {
	return BranchPrefix + strings.ToLower(ulid.Make().String())
}

// CommitMessage summarizes the achieved coverage for the convergence path taken.
func CommitMessage(status m.Status, coverage float64) string {
	if status == m.StatusDoneAfterMutation {
		return fmt.Sprintf("chore(tests): add tests after mutation - coverage %.2f%%", coverage)
	}

	return fmt.Sprintf("chore(tests): add/modify tests - coverage %.2f%%", coverage)
}

func (p *publisher) Publish(ctx context.Context, root m.Path, status m.Status, coverage float64) (Publication, error) {
	owner, repo, ok := p.target(ctx, root)
	if ok && p.cfg.Token == "" {
		return Publication{}, fmt.Errorf("open pull request for %s/%s: %w", owner, repo, ErrMissingCredentials)
	}

	branch := p.newName()
	message := CommitMessage(status, coverage)

	if err := p.git.CreateBranch(ctx, root, branch); err != nil {
		return Publication{}, fmt.Errorf("create branch: %w", err)
	}

	author := adapter.Author{Name: p.cfg.AuthorName, Email: p.cfg.AuthorEmail}
	if err := p.git.CommitAll(ctx, root, message, author); err != nil {
		return Publication{}, fmt.Errorf("commit tests: %w", err)
	}

	if err := p.git.Push(ctx, root, p.cfg.Remote, branch); err != nil {
		return Publication{}, fmt.Errorf("push branch: %w", err)
	}

	slog.Info("Published tests", "branch", branch, "coverage", coverage)

	publication := Publication{Branch: branch}
	if !ok {
		return publication, nil
	}

	pr, err := p.pulls.OpenPullRequest(ctx, adapter.PullRequestRequest{
		Owner: owner,
		Repo:  repo,
		Head:  branch,
		Base:  p.cfg.Base,
		Title: message,
		Body:  pullRequestBody(coverage),
	})
	if err != nil {
		return publication, fmt.Errorf("open pull request: %w", err)
	}

	slog.Info("Opened pull request", "url", pr.URL, "number", pr.Number)

	publication.PR = pr

	return publication, nil
}

// target resolves the remote to an owner/repository pair. Failures only
// disable the pull request.
func (p *publisher) target(ctx context.Context, root m.Path) (string, string, bool) {
	if p.pulls == nil {
		return "", "", false
	}

	url, err := p.git.RemoteURL(ctx, root, p.cfg.Remote)
	if err != nil {
		slog.Warn("Failed to resolve remote, skipping pull request", "remote", p.cfg.Remote, "error", err)
		return "", "", false
	}

	owner, repo, ok := adapter.ParseRemote(url)
	if !ok {
		slog.Warn("Remote is not an owner/repo URL, skipping pull request", "remote", p.cfg.Remote, "url", url)
		return "", "", false
	}

	return owner, repo, true
}

func pullRequestBody(coverage float64) string {
	return fmt.Sprintf("Automated tests added by the suitesync test generator.\n\nLine coverage: %.2f%%", coverage)
}
