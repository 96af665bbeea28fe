package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-tags/internal/domain"
)

func ptr(s string) *string { return &s }

var sampleRows = []domain.RepoResult{
	{RepoName: ptr("desispec"), Tag: "0.68.1", TagDate: "2025-01-10", MergedPRs: domain.MergedCount(12)},
	{Tag: domain.NotAvailable, TagDate: domain.NotAvailable, MergedPRs: domain.MergedLabel(domain.NotAvailable), Error: ptr("not a GitHub URL: https://gitlab.com/a/b")},
	{RepoName: ptr("redrock"), Tag: domain.ErrorValue, TagDate: domain.ErrorValue, MergedPRs: domain.MergedLabel(domain.ErrorValue), Error: ptr("boom")},
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", sampleRows))

	want := "Repository,LatestTag,TagDate,PRsSinceTag\n" +
		"desispec,0.68.1,2025-01-10,12\n" +
		",N/A,N/A,N/A\n" +
		"redrock,ERROR,ERROR,ERROR\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv output mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "md", sampleRows[:1]))

	want := "| Repository | Latest Tag | Tag Date   | PRs Since Tag |\n" +
		"|------------|------------|------------|---------------|\n" +
		"| desispec   | 0.68.1     | 2025-01-10 | 12            |\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("markdown output mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "table", sampleRows))

	out := buf.String()
	for _, s := range []string{"Repository", "Latest Tag", "PRs Since Tag", "desispec", "2025-01-10", "redrock", "ERROR", "N/A"} {
		assert.Contains(t, out, s)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Greater(t, len(lines), len(sampleRows)+1)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", sampleRows[:2]))

	out := buf.String()
	assert.Contains(t, out, `"repo_name": "desispec"`)
	assert.Contains(t, out, `"merged_prs": 12`)
	assert.Contains(t, out, `"repo_name": null`)
	assert.Contains(t, out, `"merged_prs": "N/A"`)
	assert.Contains(t, out, `"error": "not a GitHub URL: https://gitlab.com/a/b"`)
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.ErrorContains(t, Write(&bytes.Buffer{}, "xml", sampleRows), `unknown output format "xml"`)
}

func TestSummarize(t *testing.T) {
	rows := append([]domain.RepoResult{
		{RepoName: ptr("desitarget"), Tag: "3.2.0", TagDate: "2024-12-01", MergedPRs: domain.MergedCount(4)},
		{RepoName: ptr("specter"), Tag: domain.NotAvailable, TagDate: domain.NotAvailable, MergedPRs: domain.MergedCount(0)},
	}, sampleRows...)

	s, err := Summarize(rows)
	require.NoError(t, err)
	assert.Equal(t, Summary{Repositories: 5, Counted: 3, Total: 16, Mean: 16.0 / 3, Median: 4, Max: 12}, s)
}

func TestSummarize_NothingCounted(t *testing.T) {
	s, err := Summarize(sampleRows[1:])
	require.NoError(t, err)
	assert.Equal(t, Summary{Repositories: 2}, s)
}
