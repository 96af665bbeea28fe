// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/naka-gawa/github-tags/internal/domain"
	"github.com/naka-gawa/github-tags/internal/gateway"
)

// tagsPerPage bounds the tag listing to a single page. Older version tags
// beyond it are not considered.
const tagsPerPage = 100

// TagResolver finds the highest version tag of a repository and its date.
type TagResolver struct {
	fetcher gateway.Fetcher
	logger  *clog.Logger
}

// NewTagResolver creates a new TagResolver instance.
func NewTagResolver(fetcher gateway.Fetcher, logger *clog.Logger) *TagResolver {
	return &TagResolver{fetcher: fetcher, logger: logger}
}

// Resolve returns Found with the latest version tag, or NotFound when the
// repository has no tag matching [v]X[.Y[.Z]].
func (r *TagResolver) Resolve(ctx context.Context, ref domain.RepositoryRef) (domain.TagLookup, error) {
	records, err := r.fetcher.ListTags(ctx, ref, tagsPerPage)
	if err != nil {
		return domain.TagLookup{}, err
	}
	tag, ok := SelectLatestTag(records)
	if !ok || tag.CommitID == "" {
		r.logger.Debug("No version tag found", "repo", ref.String(), "tags", len(records))
		return domain.TagLookup{Status: domain.NotFound}, nil
	}

	commit, err := r.fetcher.GetCommit(ctx, ref, tag.CommitID)
	if err != nil {
		return domain.TagLookup{}, fmt.Errorf("failed to resolve date of tag %s: %w", tag.Name, err)
	}
	release := domain.ResolvedRelease{Tag: tag, Date: commitDate(commit)}
	r.logger.Debug("Resolved latest tag", "repo", ref.String(), "tag", tag.Name, "date", release.Date)
	return domain.TagLookup{Status: domain.Found, Release: release}, nil
}

// SelectLatestTag picks the tag with the greatest numeric version. Names that
// are not versions are skipped; on equal versions the first listed wins.
func SelectLatestTag(records []gateway.TagRecord) (domain.Tag, bool) {
	var best domain.Tag
	found := false
	for _, rec := range records {
		v, ok := domain.ParseVersion(rec.Name)
		if !ok {
			continue
		}
		if !found || v.Compare(best.Version) > 0 {
			best = domain.Tag{Name: rec.Name, Version: v, CommitID: rec.CommitSHA}
			found = true
		}
	}
	return best, found
}

// commitDate prefers the committer date over the author date.
func commitDate(c gateway.CommitRecord) string {
	switch {
	case c.CommitterDate != nil:
		return c.CommitterDate.Format(time.DateOnly)
	case c.AuthorDate != nil:
		return c.AuthorDate.Format(time.DateOnly)
	}
	return domain.UnknownDate
}
