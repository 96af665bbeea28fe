package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/naka-gawa/github-tags/internal/config"
	"github.com/naka-gawa/github-tags/internal/domain"
	"github.com/naka-gawa/github-tags/internal/gateway"
)

// Resolver is the use case for reporting the latest tag and merged pull
// requests of many repositories. Repositories are processed one at a time,
// in input order.
type Resolver struct {
	cfg      *config.Config
	tags     *TagResolver
	activity *ActivityCounter
	logger   *clog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a new Resolver instance.
func NewResolver(cfg *config.Config, fetcher gateway.Fetcher, logger *clog.Logger) *Resolver {
	return &Resolver{
		cfg:      cfg,
		tags:     NewTagResolver(fetcher, logger),
		activity: NewActivityCounter(fetcher, logger),
		logger:   logger,
		sleep:    gateway.SleepContext,
	}
}

// Resolve returns one RepoResult per identifier, in order.
//
// An identifier that cannot be parsed yields a row carrying the error and the
// batch continues. Any other failure is recorded as an ERROR row and then
// returned, ending the batch: the rows collected so far, including that one,
// are returned alongside the error and later identifiers are never attempted.
func (r *Resolver) Resolve(ctx context.Context, identifiers []string) ([]domain.RepoResult, error) {
	r.logger.Info("Usecase: Starting repository resolution...", "repositories", len(identifiers))

	results := make([]domain.RepoResult, 0, len(identifiers))
	for i, id := range identifiers {
		if i > 0 && r.cfg.Pacing > 0 {
			if err := r.sleep(ctx, r.cfg.Pacing); err != nil {
				return results, err
			}
		}
		r.logger.Info("Processing repository", "identifier", id)

		ref, err := domain.ParseRepositoryRef(id, r.cfg.DefaultOrg)
		if err != nil {
			r.logger.Warn("Skipping invalid repository identifier", "identifier", id, "error", err)
			results = append(results, invalidResult(err))
			continue
		}

		result, err := r.resolveRepo(ctx, ref)
		if err != nil {
			r.logger.Error("Failed to process repository", "identifier", id, "error", err)
			results = append(results, errorResult(ref, err))
			return results, fmt.Errorf("failed to process %s: %w", id, err)
		}
		results = append(results, result)
	}

	r.logger.Info("Usecase: Resolution complete.")
	return results, nil
}

func (r *Resolver) resolveRepo(ctx context.Context, ref domain.RepositoryRef) (domain.RepoResult, error) {
	lookup, err := r.tags.Resolve(ctx, ref)
	if err != nil {
		return domain.RepoResult{}, err
	}

	tag, date, since := domain.NotAvailable, domain.NotAvailable, ""
	if lookup.Status == domain.Found {
		tag, date = lookup.Release.Tag.Name, lookup.Release.Date
		if lookup.Release.HasDate() {
			since = lookup.Release.Date
		}
	}

	// Without a usable tag date every merged pull request is counted.
	merged, err := r.activity.Count(ctx, ref, since)
	if err != nil {
		return domain.RepoResult{}, err
	}

	name := ref.Name
	return domain.RepoResult{
		RepoName:  &name,
		Tag:       tag,
		TagDate:   date,
		MergedPRs: domain.MergedCount(merged),
	}, nil
}

func invalidResult(err error) domain.RepoResult {
	msg := err.Error()
	return domain.RepoResult{
		Tag:       domain.NotAvailable,
		TagDate:   domain.NotAvailable,
		MergedPRs: domain.MergedLabel(domain.NotAvailable),
		Error:     &msg,
	}
}

func errorResult(ref domain.RepositoryRef, err error) domain.RepoResult {
	name, msg := ref.Name, err.Error()
	return domain.RepoResult{
		RepoName:  &name,
		Tag:       domain.ErrorValue,
		TagDate:   domain.ErrorValue,
		MergedPRs: domain.MergedLabel(domain.ErrorValue),
		Error:     &msg,
	}
}
