package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"reclaim/internal/report"
)

func summaryRows(candidates int, totals report.Totals) [][]string {
	return [][]string{
		{"Candidates", fmt.Sprintf("%d", candidates)},
		{"Swapped", fmt.Sprintf("%d", totals.Swapped)},
		{"Metadata only", fmt.Sprintf("%d", totals.MetadataOnly)},
		{"Skipped", fmt.Sprintf("%d", totals.Skipped)},
		{"Failed", fmt.Sprintf("%d", totals.Failed)},
		{"Reclaimed", humanize.Bytes(uint64(max64(totals.BytesReclaimed, 0)))},
	}
}

func writeSummary(out io.Writer, candidates int, totals report.Totals, dryRun bool) {
	title := "Run summary"
	if dryRun {
		title = "Run summary (dry run)"
	}
	rows := summaryRows(candidates, totals)

	if isTerminalWriter(out) {
		fmt.Fprintln(out, renderTable([]string{title, ""}, rows, []columnAlignment{alignLeft, alignRight}))
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, row := range rows {
		fmt.Fprintf(out, "  %s: %s\n", row[0], row[1])
	}
}

func isTerminalWriter(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
