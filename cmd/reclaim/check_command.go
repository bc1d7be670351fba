package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reclaim/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the environment: exiftool, library access, database, indexer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			writeCheckResults(cmd.OutOrStdout(), results)

			for _, result := range results {
				if !result.Passed {
					return errors.New("one or more preflight checks failed")
				}
			}
			return nil
		},
	}
}

func writeCheckResults(out io.Writer, results []preflight.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{result.Name, passFail(result.Passed), result.Detail})
	}

	if isTerminalWriter(out) {
		fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s: %s (%s)\n", row[0], row[1], row[2])
	}
}

func passFail(passed bool) string {
	if passed {
		return "ok"
	}
	return "failed"
}
