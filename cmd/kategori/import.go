package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/engine"
	"github.com/Veraticus/kategori/internal/importer"
	"github.com/Veraticus/kategori/internal/tui"
	"github.com/Veraticus/kategori/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Categorize and store the transactions in a bank export",
		Long: `Read a CSV or OFX/QFX bank export and store every row as a categorized record.

Outgoing payments are matched against learned keywords. When nothing matches
you are asked to pick a category by number or type a new category name; the
description is then remembered as a keyword for that category. Incoming
payments are filed under InnPåKonto without asking.

Records are appended: importing the same file twice stores its rows twice.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("format", "", "Input format (csv, ofx); detected from the file extension when empty")
	cmd.Flags().Bool("tui", false, "Use the interactive picker instead of the line prompt")
	cmd.Flags().String("theme", "default", "Picker theme (default, catppuccin-mocha)")
	cmd.Flags().String("on-error", "skip", "What to do with malformed rows (skip, abort)")
	cmd.Flags().String("date-column", "", "CSV date column header")
	cmd.Flags().String("description-column", "", "CSV description column header")
	cmd.Flags().String("amount-column", "", "CSV amount column header")
	cmd.Flags().String("delimiter", "", "CSV delimiter; detected when empty")

	_ = viper.BindPFlag("import.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("import.tui", cmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("import.theme", cmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("import.on_error", cmd.Flags().Lookup("on-error"))
	_ = viper.BindPFlag("import.date_column", cmd.Flags().Lookup("date-column"))
	_ = viper.BindPFlag("import.description_column", cmd.Flags().Lookup("description-column"))
	_ = viper.BindPFlag("import.amount_column", cmd.Flags().Lookup("amount-column"))
	_ = viper.BindPFlag("import.delimiter", cmd.Flags().Lookup("delimiter"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	format, err := importer.ParseFormat(settings.Import.Format)
	if err != nil {
		return err
	}

	policy, err := engine.ParseFailurePolicy(settings.Import.OnError)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx)

	rows, err := importer.ReadFile(ctx, path, format, settings.CSVOptions())
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Could not read %s", args[0]), err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Importing %d transactions from %s", len(rows), filepath.Base(path))))

	prompter := cli.NewCLIPrompter(cmd.InOrStdin(), out)
	var asker engine.Asker = prompter
	if settings.Import.TUI {
		asker = tui.NewAsker(tui.WithTheme(themes.GetTheme(viper.GetString("import.theme"))))
	}

	eng := engine.NewWithConfig(store, asker, prompter, engine.Config{OnError: policy})

	_, err = eng.Import(ctx, path, rows)
	switch {
	case errors.Is(err, common.ErrNoTransactions):
		fmt.Fprintln(out, cli.FormatInfo("No transactions found in "+filepath.Base(path)))
		return nil
	case handler.WasInterrupted():
		slog.Info("Import interrupted by operator", "error", err)
		return nil
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(out, cli.FormatWarning("Import aborted. Rows processed so far are saved."))
		return nil
	case err != nil:
		return fmt.Errorf("import failed: %w", err)
	}

	return nil
}
