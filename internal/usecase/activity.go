package usecase

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/naka-gawa/github-tags/internal/domain"
	"github.com/naka-gawa/github-tags/internal/gateway"
)

// ActivityCounter counts merged pull requests through the search API. The
// search API reports counts accurately up to 1000 matches.
type ActivityCounter struct {
	fetcher gateway.Fetcher
	logger  *clog.Logger
}

// NewActivityCounter creates a new ActivityCounter instance.
func NewActivityCounter(fetcher gateway.Fetcher, logger *clog.Logger) *ActivityCounter {
	return &ActivityCounter{fetcher: fetcher, logger: logger}
}

// MergedPRQuery builds the search query for merged pull requests of ref,
// merged strictly after since (YYYY-MM-DD) unless since is empty.
func MergedPRQuery(ref domain.RepositoryRef, since string) string {
	q := fmt.Sprintf("repo:%s is:pr is:merged", ref)
	if since != "" {
		q += " merged:>" + since
	}
	return q
}

// Count returns the number of merged pull requests after since, or all of
// them when since is empty.
func (c *ActivityCounter) Count(ctx context.Context, ref domain.RepositoryRef, since string) (int, error) {
	n, err := c.fetcher.SearchIssuesCount(ctx, MergedPRQuery(ref, since))
	if err != nil {
		return 0, fmt.Errorf("failed to count merged pull requests: %w", err)
	}
	c.logger.Debug("Counted merged pull requests", "repo", ref.String(), "since", since, "count", n)
	return n, nil
}
