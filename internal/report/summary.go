package report

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-tags/internal/domain"
)

// Summary aggregates merged pull request counts over the rows that have one.
type Summary struct {
	Repositories int
	Counted      int
	Total        float64
	Mean         float64
	Median       float64
	Max          float64
}

// Summarize computes a Summary. Rows without a count are skipped.
func Summarize(rows []domain.RepoResult) (Summary, error) {
	s := Summary{Repositories: len(rows)}
	var data stats.Float64Data
	for _, r := range rows {
		if r.MergedPRs.Known() {
			data = append(data, float64(r.MergedPRs.Count))
		}
	}
	s.Counted = len(data)
	if s.Counted == 0 {
		return s, nil
	}

	var err error
	if s.Total, err = stats.Sum(data); err != nil {
		return s, fmt.Errorf("failed to sum merged pull requests: %w", err)
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("failed to average merged pull requests: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("failed to compute median of merged pull requests: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, fmt.Errorf("failed to compute max of merged pull requests: %w", err)
	}
	return s, nil
}
