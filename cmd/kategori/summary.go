package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/config"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/Veraticus/kategori/internal/sheets"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newReportWriter is replaced in tests.
var newReportWriter = func(ctx context.Context) (sheets.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the total amount per category",
		Long: `Print the total stored amount for every category, in the order the
categories were created. Categories without records show 0.00.`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}

	cmd.Flags().BoolP("uncategorized", "u", false, "Include the Uncategorized total")
	cmd.Flags().String("export", "", "Also export the summary (sheets)")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	withUncategorized, _ := cmd.Flags().GetBool("uncategorized")
	export, _ := cmd.Flags().GetString("export")

	if export != "" && export != "sheets" {
		return fmt.Errorf("%w: unknown export target %q", common.ErrInvalidConfig, export)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var totals []service.CategoryTotal
	if withUncategorized {
		totals, err = store.SumWithUncategorized(ctx)
	} else {
		totals, err = store.SumByCategory(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to sum categories: %w", err)
	}

	if len(totals) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Run 'kategori import' to get started."))
		return nil
	}

	fmt.Fprintln(out, cli.TitleStyle.Render(cli.ChartIcon+" Category totals"))
	printTotals(cmd, totals)

	if export == "" {
		return nil
	}

	writer, err := newReportWriter(ctx)
	if err != nil {
		return common.NewUserError("Google Sheets is not configured", err)
	}
	report := sheets.NewReport("Kategori Summary", totals, time.Now())
	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Summary exported to Google Sheets"))

	return nil
}

func printTotals(cmd *cobra.Command, totals []service.CategoryTotal) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	fmt.Fprintf(w, "%s\t%s\t%s\t\n",
		headerStyle.Render("Category"),
		headerStyle.Render("Records"),
		headerStyle.Render("Amount"))
	fmt.Fprintf(w, "%s\t%s\t%s\t\n", strings.Repeat("-", 20), strings.Repeat("-", 7), strings.Repeat("-", 16))

	sum := decimal.Zero
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", t.Category, t.Count, cli.FormatAmount(t.Total))
		sum = sum.Add(t.Total)
	}
	fmt.Fprintf(w, "%s\t\t%s\t\n", cli.BoldStyle.Render("Total"), cli.FormatAmount(sum))

	_ = w.Flush()
}
