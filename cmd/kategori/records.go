package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/importer"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/Veraticus/kategori/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored records",
		Long: `List classified records, oldest first.

Filter by category, kind, import run or date range. Runs can be given by
the short id shown by 'kategori runs'.`,
		Example: `  kategori records --category Dagligvarer --from 01.03.2024 --to 31.03.2024
  kategori records --run 1f2e3d4c --kind Expense`,
		Args: cobra.NoArgs,
		RunE: runRecords,
	}

	cmd.Flags().StringP("category", "c", "", "Only records in this category")
	cmd.Flags().String("kind", "", "Only records of this kind (Expense, Bonus, Innbetaling, Return, Unknown)")
	cmd.Flags().String("run", "", "Only records from this import run")
	cmd.Flags().String("from", "", "First date to include")
	cmd.Flags().String("to", "", "Last date to include")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of records (0 for all)")

	return cmd
}

func runRecords(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	category, _ := flags.GetString("category")
	kind, _ := flags.GetString("kind")
	runID, _ := flags.GetString("run")
	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")
	limit, _ := flags.GetInt("limit")

	filter := service.RecordFilter{
		Category: category,
		Kind:     model.Kind(kind),
		Limit:    limit,
	}

	var err error
	if filter.StartDate, err = parseDateFlag("from", from); err != nil {
		return err
	}
	if filter.EndDate, err = parseDateFlag("to", to); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if runID != "" {
		run, resolveErr := resolveRun(ctx, store, runID)
		if resolveErr != nil {
			return resolveErr
		}
		filter.RunID = run.ID
	}

	records, err := store.Records(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No records found."))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("Date"),
		headerStyle.Render("Kind"),
		headerStyle.Render("Category"),
		headerStyle.Render("Amount"),
		headerStyle.Render("Description"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10), strings.Repeat("-", 11), strings.Repeat("-", 15),
		strings.Repeat("-", 14), strings.Repeat("-", 30))

	for _, rec := range records {
		category := rec.CategoryName()
		if category == "" {
			category = cli.SubtleStyle.Render("-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Date.Format("02.01.2006"),
			cli.FormatKind(rec.Kind),
			category,
			cli.FormatAmount(rec.Amount),
			rec.Description)
	}

	return nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date := importer.ParseDate(value)
	if date == nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not read --%s date %q", name, value), common.ErrInvalidConfig)
	}
	return date, nil
}

// resolveRun accepts a full run id or a unique prefix of one.
func resolveRun(ctx context.Context, store *storage.SQLiteStorage, id string) (*model.ImportRun, error) {
	if run, err := store.GetRun(ctx, id); err == nil {
		return run, nil
	}

	runs, err := store.Runs(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get import runs: %w", err)
	}

	var match *model.ImportRun
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, common.NewUserError(fmt.Sprintf("Run id %q is ambiguous", id), common.ErrInvalidConfig)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, common.NewUserError(fmt.Sprintf("No import run %q", id), common.ErrNotFound)
	}
	return match, nil
}
