// Package report renders repository results as csv, markdown, a text grid or
// JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/naka-gawa/github-tags/internal/config"
	"github.com/naka-gawa/github-tags/internal/domain"
)

var (
	csvHeader   = []string{"Repository", "LatestTag", "TagDate", "PRsSinceTag"}
	tableHeader = []string{"Repository", "Latest Tag", "Tag Date", "PRs Since Tag"}
)

// Write renders rows to w in the given format.
func Write(w io.Writer, format string, rows []domain.RepoResult) error {
	switch format {
	case config.FormatCSV:
		return writeCSV(w, rows)
	case config.FormatMarkdown:
		return writeTable(w, rows, markdownTable)
	case config.FormatTable:
		return writeTable(w, rows, gridTable)
	case config.FormatJSON:
		return writeJSON(w, rows)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func record(r domain.RepoResult) []string {
	return []string{r.Name(), r.Tag, r.TagDate, r.MergedPRs.String()}
}

func writeCSV(w io.Writer, rows []domain.RepoResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, rows []domain.RepoResult) error {
	if rows == nil {
		rows = []domain.RepoResult{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, rows []domain.RepoResult, newTable func(io.Writer) *tablewriter.Table) error {
	table := newTable(w)
	for _, r := range rows {
		if err := table.Append(record(r)); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	return table.Render()
}

func tableConfig() tablewriter.Config {
	return tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
}

// markdownTable renders a GitHub flavoured markdown table.
func markdownTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tableConfig()),
		tablewriter.WithHeader(tableHeader),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func gridTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tableConfig()),
		tablewriter.WithHeader(tableHeader),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
