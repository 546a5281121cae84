package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	adaptermocks "suitesync.dev/pkg/suitesync/internal/adapter/mocks"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

type fakePulls struct {
	requests []adapter.PullRequestRequest
	err      error
}

func (f *fakePulls) OpenPullRequest(_ context.Context, req adapter.PullRequestRequest) (*m.PullRequest, error) {
	f.requests = append(f.requests, req)

	if f.err != nil {
		return nil, f.err
	}

	return &m.PullRequest{Number: 7, URL: "https://github.com/acme/calc/pull/7", Head: req.Head, Base: req.Base}, nil
}

func publishConfig() PublishConfig {
	return PublishConfig{
		Enabled:     true,
		Remote:      "origin",
		Base:        "main",
		AuthorName:  "suitesync",
		AuthorEmail: "bot@example.com",
		Token:       "secret",
	}
}

func newPublisherUnderTest(git adapter.GitAdapter, pulls adapter.PullRequestAdapter, cfg PublishConfig) Publisher {
	p := NewPublisher(git, pulls, cfg).(*publisher)
	p.newName = func() string { return BranchPrefix + "fixed" }

	return p
}

func TestBranchName(t *testing.T) {
	first := BranchName()
	second := BranchName()

	assert.True(t, strings.HasPrefix(first, BranchPrefix))
	assert.Equal(t, strings.ToLower(first), first)
	assert.NotEqual(t, first, second)
}

func TestCommitMessage(t *testing.T) {
	assert.Equal(t, "chore(tests): add/modify tests - coverage 81.25%", CommitMessage(m.StatusDone, 81.25))
	assert.Equal(t, "chore(tests): add tests after mutation - coverage 90.00%", CommitMessage(m.StatusDoneAfterMutation, 90))
}

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	root := m.Path("/repo")
	author := adapter.Author{Name: "suitesync", Email: "bot@example.com"}
	message := CommitMessage(m.StatusDone, 85)

	git := adaptermocks.NewMockGitAdapter(t)
	git.EXPECT().RemoteURL(mock.Anything, root, "origin").Return("git@github.com:acme/calc.git", nil)
	git.EXPECT().CreateBranch(mock.Anything, root, "auto/tests/fixed").Return(nil)
	git.EXPECT().CommitAll(mock.Anything, root, message, author).Return(nil)
	git.EXPECT().Push(mock.Anything, root, "origin", "auto/tests/fixed").Return(nil)

	pulls := &fakePulls{}

	publication, err := newPublisherUnderTest(git, pulls, publishConfig()).Publish(ctx, root, m.StatusDone, 85)
	require.NoError(t, err)

	assert.Equal(t, "auto/tests/fixed", publication.Branch)
	require.NotNil(t, publication.PR)
	assert.Equal(t, 7, publication.PR.Number)

	require.Len(t, pulls.requests, 1)
	req := pulls.requests[0]
	assert.Equal(t, "acme", req.Owner)
	assert.Equal(t, "calc", req.Repo)
	assert.Equal(t, "auto/tests/fixed", req.Head)
	assert.Equal(t, "main", req.Base)
	assert.Equal(t, message, req.Title)
	assert.Contains(t, req.Body, "85.00%")
}

func TestPublisher_Publish_UnresolvedRemoteSkipsPullRequest(t *testing.T) {
	ctx := context.Background()
	root := m.Path("/repo")

	git := adaptermocks.NewMockGitAdapter(t)
	git.EXPECT().RemoteURL(mock.Anything, root, "origin").Return("", errBackend)
	git.EXPECT().CreateBranch(mock.Anything, root, "auto/tests/fixed").Return(nil)
	git.EXPECT().CommitAll(mock.Anything, root, mock.Anything, mock.Anything).Return(nil)
	git.EXPECT().Push(mock.Anything, root, "origin", "auto/tests/fixed").Return(nil)

	pulls := &fakePulls{}
	cfg := publishConfig()
	cfg.Token = ""

	publication, err := newPublisherUnderTest(git, pulls, cfg).Publish(ctx, root, m.StatusDoneAfterMutation, 90)

	require.NoError(t, err)
	assert.Equal(t, "auto/tests/fixed", publication.Branch)
	assert.Nil(t, publication.PR)
	assert.Empty(t, pulls.requests)
}

func TestPublisher_Publish_MissingTokenFailsBeforeGitWrites(t *testing.T) {
	root := m.Path("/repo")

	git := adaptermocks.NewMockGitAdapter(t)
	git.EXPECT().RemoteURL(mock.Anything, root, "origin").Return("https://github.com/acme/calc.git", nil)

	cfg := publishConfig()
	cfg.Token = ""

	publication, err := newPublisherUnderTest(git, &fakePulls{}, cfg).Publish(context.Background(), root, m.StatusDone, 85)

	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Empty(t, publication.Branch)
	git.AssertNotCalled(t, "CreateBranch", mock.Anything, mock.Anything, mock.Anything)
	git.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_Publish_PushFailure(t *testing.T) {
	root := m.Path("/repo")

	git := adaptermocks.NewMockGitAdapter(t)
	git.EXPECT().CreateBranch(mock.Anything, root, "auto/tests/fixed").Return(nil)
	git.EXPECT().CommitAll(mock.Anything, root, mock.Anything, mock.Anything).Return(nil)
	git.EXPECT().Push(mock.Anything, root, "origin", "auto/tests/fixed").Return(errBackend)

	_, err := newPublisherUnderTest(git, nil, publishConfig()).Publish(context.Background(), root, m.StatusDone, 85)

	require.ErrorIs(t, err, errBackend)
	assert.Contains(t, err.Error(), "push branch")
}

func TestPublisher_Publish_PullRequestFailureKeepsBranch(t *testing.T) {
	root := m.Path("/repo")

	git := adaptermocks.NewMockGitAdapter(t)
	git.EXPECT().RemoteURL(mock.Anything, root, "origin").Return("https://github.com/acme/calc", nil)
	git.EXPECT().CreateBranch(mock.Anything, root, mock.Anything).Return(nil)
	git.EXPECT().CommitAll(mock.Anything, root, mock.Anything, mock.Anything).Return(nil)
	git.EXPECT().Push(mock.Anything, root, "origin", mock.Anything).Return(nil)

	publication, err := newPublisherUnderTest(git, &fakePulls{err: errBackend}, publishConfig()).
		Publish(context.Background(), root, m.StatusDone, 85)

	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, "auto/tests/fixed", publication.Branch)
	assert.Nil(t, publication.PR)
}
