package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reclaim/internal/assets"
	"reclaim/internal/reconcile"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List candidate assets and the action each would get",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source, err := assets.NewSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer source.Close()

			records, err := source.FetchCandidates(cmd.Context())
			if err != nil {
				return err
			}

			writePlan(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func planRow(record assets.Record) []string {
	dims := fmt.Sprintf("%dx%d", record.Width, record.Height)
	action, detail := projectAction(record)
	return []string{record.ID, dims, humanize.Bytes(uint64(record.SizeBytes)), action, detail}
}

// projectAction renders the engine's own classification so plan output
// matches what run would do at this instant.
func projectAction(record assets.Record) (string, string) {
	c := reconcile.Classify(record)
	switch c.Outcome {
	case reconcile.OutcomeSwapped:
		return "swap", fmt.Sprintf("reclaims %s", humanize.Bytes(uint64(c.OriginalSize-c.EncodedSize)))
	case reconcile.OutcomeMetadataOnly:
		return "metadata-only", c.Reason
	default:
		return "skip", c.Reason
	}
}

func writePlan(out io.Writer, records []assets.Record) {
	fmt.Fprintf(out, "found %d large videos\n", len(records))
	if len(records) == 0 {
		return
	}

	headers := []string{"Asset", "Dimensions", "Recorded size", "Action", "Detail"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, planRow(record))
	}

	if isTerminalWriter(out) {
		fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s %s %s %s (%s)\n", row[0], row[1], row[2], row[3], row[4])
	}
}
