package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// DefaultGitHubAPI is the public GitHub REST endpoint.
const DefaultGitHubAPI = "https://api.github.com"

// ErrMissingToken is returned when a pull request is requested without a token.
var ErrMissingToken = errors.New("missing API token")

// PullRequestRequest describes a pull request to open.
type PullRequestRequest struct {
	Owner string
	Repo  string
	Head  string
	Base  string
	Title string
	Body  string
}

// PullRequestAdapter opens pull requests on a hosting service.
type PullRequestAdapter interface {
	OpenPullRequest(ctx context.Context, req PullRequestRequest) (*m.PullRequest, error)
}

// GitHubAdapter opens pull requests through the GitHub REST API.
type GitHubAdapter struct {
	token  string
	client *github.Client
	err    error
}

// NewGitHubAdapter constructs a GitHubAdapter. An empty baseURL targets github.com;
// any other value is used as the API root (GitHub Enterprise or a test server).
func NewGitHubAdapter(baseURL, token string) *GitHubAdapter {
	client := github.NewClient(&http.Client{Timeout: 30 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}

	adapter := &GitHubAdapter{token: token, client: client}

	if baseURL != "" && strings.TrimRight(baseURL, "/") != DefaultGitHubAPI {
		parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			adapter.err = fmt.Errorf("parse API URL %q: %w", baseURL, err)
		} else {
			client.BaseURL = parsed
		}
	}

	return adapter
}

// OpenPullRequest creates the pull request with PullRequests.Create.
func (a *GitHubAdapter) OpenPullRequest(ctx context.Context, req PullRequestRequest) (*m.PullRequest, error) {
	if a.token == "" {
		return nil, ErrMissingToken
	}

	if a.err != nil {
		return nil, a.err
	}

	pr, _, err := a.client.PullRequests.Create(ctx, req.Owner, req.Repo, &github.NewPullRequest{
		Title: github.Ptr(req.Title),
		Head:  github.Ptr(req.Head),
		Base:  github.Ptr(req.Base),
		Body:  github.Ptr(req.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("open pull request: %w", err)
	}

	return &m.PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		Head:   req.Head,
		Base:   req.Base,
	}, nil
}

var remotePattern = regexp.MustCompile(`[:/]([^/:]+)/([^/]+?)(?:\.git)?/?$`)

// ParseRemote extracts owner and repository from https or scp-style ssh remote URLs.
func ParseRemote(url string) (owner, repo string, ok bool) {
	match := remotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if match == nil {
		return "", "", false
	}

	return match[1], match[2], true
}
