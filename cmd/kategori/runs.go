package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past imports",
		Long:  `Show recent import runs, newest first, with how many rows each one read, stored and skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Runs(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to get import runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No imports yet."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Run"),
				headerStyle.Render("Started"),
				headerStyle.Render("Read"),
				headerStyle.Render("Stored"),
				headerStyle.Render("Skipped"),
				headerStyle.Render("Source"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8), strings.Repeat("-", 16),
				strings.Repeat("-", 4), strings.Repeat("-", 6), strings.Repeat("-", 7), strings.Repeat("-", 20))

			for _, run := range runs {
				status := ""
				if run.FinishedAt == nil {
					status = " " + cli.WarningStyle.Render("(unfinished)")
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s%s\n",
					run.ID[:8],
					run.StartedAt.Local().Format("02.01.2006 15:04"),
					run.RowsRead, run.RowsWritten, run.RowsSkipped,
					run.Source, status)
			}

			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of runs to show (0 for all)")

	return cmd
}
