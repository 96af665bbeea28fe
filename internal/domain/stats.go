// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"strconv"
)

const (
	NotAvailable = "N/A"
	ErrorValue   = "ERROR"
)

// MergedPRs is the number of merged pull requests since a tag, or a
// placeholder label when the count is not available.
type MergedPRs struct {
	Count int
	Label string
}

// MergedCount returns a numeric MergedPRs.
func MergedCount(n int) MergedPRs { return MergedPRs{Count: n} }

// MergedLabel returns a placeholder MergedPRs such as NotAvailable.
func MergedLabel(label string) MergedPRs { return MergedPRs{Label: label} }

// Known reports whether the value is a count rather than a placeholder.
func (m MergedPRs) Known() bool { return m.Label == "" }

func (m MergedPRs) String() string {
	if m.Label != "" {
		return m.Label
	}
	return strconv.Itoa(m.Count)
}

// MarshalJSON encodes counts as numbers and placeholders as strings.
func (m MergedPRs) MarshalJSON() ([]byte, error) {
	if m.Label != "" {
		return json.Marshal(m.Label)
	}
	return json.Marshal(m.Count)
}

// RepoResult holds the latest tag and merged pull request count for a single
// repository. It is the core domain entity of this application.
// RepoName and Error are nil when not set.
type RepoResult struct {
	RepoName  *string   `json:"repo_name"`
	Tag       string    `json:"tag"`
	TagDate   string    `json:"tag_date"`
	MergedPRs MergedPRs `json:"merged_prs"`
	Error     *string   `json:"error"`
}

// Name returns the repository name, or an empty string when the identifier
// could not be parsed.
func (r RepoResult) Name() string {
	if r.RepoName == nil {
		return ""
	}
	return *r.RepoName
}
