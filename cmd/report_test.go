package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-tags/internal/domain"
)

// setupTestAPI serves desihub/desispec with one version tag and four merged
// pull requests since it. Any other repository answers 404.
func setupTestAPI(t *testing.T) envconfig.Lookuper {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/desihub/desispec/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"nightly","commit":{"sha":"zzz"}},{"name":"v1.0.0","commit":{"sha":"aaa"}}]`)
	})
	mux.HandleFunc("/repos/desihub/desispec/git/commits/aaa", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"aaa","committer":{"date":"2025-01-10T10:00:00Z"}}`)
	})
	mux.HandleFunc("/search/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "repo:desihub/desispec is:pr is:merged merged:>2025-01-10", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"total_count": 4}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return envconfig.MapLookuper(map[string]string{
		"GITHUB_API_URL": server.URL,
		"REPO_PACING":    "0s",
	})
}

func testLogger() *clog.Logger {
	return clog.New(slog.DiscardHandler)
}

func TestRunReport(t *testing.T) {
	t.Run("happy path - invalid identifiers do not stop the run", func(t *testing.T) {
		var stdout bytes.Buffer
		opts := reportOptions{repos: "desispec,https://gitlab.com/x/y", format: "csv"}

		err := runReport(context.Background(), opts, setupTestAPI(t), &stdout, testLogger())

		require.NoError(t, err)
		assert.Equal(t, "Repository,LatestTag,TagDate,PRsSinceTag\n"+
			"desispec,v1.0.0,2025-01-10,4\n"+
			",N/A,N/A,N/A\n", stdout.String())
	})

	t.Run("processing error - nothing written by default", func(t *testing.T) {
		var stdout bytes.Buffer
		opts := reportOptions{repos: "desispec,broken,specter", format: "csv"}

		err := runReport(context.Background(), opts, setupTestAPI(t), &stdout, testLogger())

		assert.ErrorIs(t, err, domain.ErrRequestFailed)
		assert.Empty(t, stdout.String())
	})

	t.Run("processing error - partial rows written on request", func(t *testing.T) {
		var stdout bytes.Buffer
		opts := reportOptions{repos: "desispec,broken,specter", format: "csv", partial: true}

		err := runReport(context.Background(), opts, setupTestAPI(t), &stdout, testLogger())

		assert.ErrorIs(t, err, domain.ErrRequestFailed)
		assert.Equal(t, "Repository,LatestTag,TagDate,PRsSinceTag\n"+
			"desispec,v1.0.0,2025-01-10,4\n"+
			"broken,ERROR,ERROR,ERROR\n", stdout.String())
	})

	t.Run("output file in markdown with summary", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.md")
		opts := reportOptions{repos: "desihub/desispec", format: "md", output: out, summary: true}

		err := runReport(context.Background(), opts, setupTestAPI(t), &bytes.Buffer{}, testLogger())

		require.NoError(t, err)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "| Repository | Latest Tag |")
		assert.Contains(t, string(data), "| desispec   | v1.0.0     | 2025-01-10 | 4             |")
	})

	t.Run("invalid format is rejected before any request", func(t *testing.T) {
		opts := reportOptions{repos: "desispec", format: "xml"}
		err := runReport(context.Background(), opts, setupTestAPI(t), &bytes.Buffer{}, testLogger())
		assert.ErrorContains(t, err, "unknown output format")
	})
}
