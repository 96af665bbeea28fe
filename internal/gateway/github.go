// Package gateway provides a gateway to the GitHub REST API. Every call goes
// through the retry policy in executor.go.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-tags/internal/domain"
)

// TagRecord is one entry of a repository's tag listing.
type TagRecord struct {
	Name      string
	CommitSHA string
}

// CommitRecord holds the dates of a git commit. Either date may be absent.
type CommitRecord struct {
	SHA           string
	CommitterDate *time.Time
	AuthorDate    *time.Time
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListTags(ctx context.Context, ref domain.RepositoryRef, perPage int) ([]TagRecord, error)
	GetCommit(ctx context.Context, ref domain.RepositoryRef, sha string) (CommitRecord, error)
	// GetLatestRelease reports false when the repository has no release.
	GetLatestRelease(ctx context.Context, ref domain.RepositoryRef) (domain.Release, bool, error)
	// SearchIssuesCount returns the total_count of an issue search.
	SearchIssuesCount(ctx context.Context, query string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	policy     RetryPolicy
	logger     *clog.Logger
}

// NewHTTPClient returns a client that sends token as a bearer credential, or
// a plain client when token is empty.
func NewHTTPClient(token string) *http.Client {
	if token == "" {
		return &http.Client{}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: ts,
		},
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(httpClient *http.Client, baseURL string, policy RetryPolicy, logger *clog.Logger) (Fetcher, error) {
	restClient := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		restClient.BaseURL = u
	}
	return &GitHubGateway{
		restClient: restClient,
		policy:     policy,
		logger:     logger,
	}, nil
}

func (g *GitHubGateway) ListTags(ctx context.Context, ref domain.RepositoryRef, perPage int) ([]TagRecord, error) {
	g.logger.Debug("Fetching tags", "repo", ref.String())
	opts := &github.ListOptions{PerPage: perPage}
	tags, err := Execute(ctx, g.policy, g.logger, "list tags of "+ref.String(),
		func(ctx context.Context) ([]*github.RepositoryTag, *github.Response, error) {
			return g.restClient.Repositories.ListTags(ctx, ref.Owner, ref.Name, opts)
		})
	if err != nil {
		return nil, err
	}
	records := make([]TagRecord, 0, len(tags))
	for _, t := range tags {
		records = append(records, TagRecord{Name: t.GetName(), CommitSHA: t.GetCommit().GetSHA()})
	}
	return records, nil
}

func (g *GitHubGateway) GetCommit(ctx context.Context, ref domain.RepositoryRef, sha string) (CommitRecord, error) {
	g.logger.Debug("Fetching commit", "repo", ref.String(), "sha", sha)
	commit, err := Execute(ctx, g.policy, g.logger, "get commit "+sha+" of "+ref.String(),
		func(ctx context.Context) (*github.Commit, *github.Response, error) {
			return g.restClient.Git.GetCommit(ctx, ref.Owner, ref.Name, sha)
		})
	if err != nil {
		return CommitRecord{}, err
	}
	return CommitRecord{
		SHA:           commit.GetSHA(),
		CommitterDate: optionalTime(commit.GetCommitter().GetDate()),
		AuthorDate:    optionalTime(commit.GetAuthor().GetDate()),
	}, nil
}

func (g *GitHubGateway) GetLatestRelease(ctx context.Context, ref domain.RepositoryRef) (domain.Release, bool, error) {
	g.logger.Debug("Fetching latest release", "repo", ref.String())
	release, err := Execute(ctx, g.policy, g.logger, "get latest release of "+ref.String(),
		func(ctx context.Context) (*github.RepositoryRelease, *github.Response, error) {
			return g.restClient.Repositories.GetLatestRelease(ctx, ref.Owner, ref.Name)
		})
	if err != nil {
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			return domain.Release{}, false, nil
		}
		return domain.Release{}, false, err
	}
	published := release.GetPublishedAt()
	if published.IsZero() {
		published = release.GetCreatedAt()
	}
	if release.GetTagName() == "" || published.IsZero() {
		return domain.Release{}, false, nil
	}
	return domain.Release{TagName: release.GetTagName(), PublishedAt: published.Time}, true, nil
}

func (g *GitHubGateway) SearchIssuesCount(ctx context.Context, query string) (int, error) {
	g.logger.Debug("Searching issues", "query", query)
	// Only total_count is consumed, so one item per page is enough.
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, err := Execute(ctx, g.policy, g.logger, "search issues",
		func(ctx context.Context) (*github.IssuesSearchResult, *github.Response, error) {
			return g.restClient.Search.Issues(ctx, query, opts)
		})
	if err != nil {
		return 0, err
	}
	return result.GetTotal(), nil
}

func optionalTime(ts github.Timestamp) *time.Time {
	if ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
