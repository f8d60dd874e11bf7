package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/spf13/cobra"
)

func setupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create or update the database schema",
		Long: `Initialize or update the database schema to the latest version.

Running setup again is safe: existing categories, keywords and records are
kept. Use --reset-ledger to delete every stored record and import run while
keeping the learned categories and keywords. A backup is taken first.`,
		RunE: runSetup,
	}

	cmd.Flags().Bool("reset-ledger", false, "Delete all stored records and import runs")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func runSetup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reset, _ := cmd.Flags().GetBool("reset-ledger")
	yes, _ := cmd.Flags().GetBool("yes")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	schemaVersion, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", store.Path(), "schema_version", schemaVersion)
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database ready at %s (schema version %d)", store.Path(), schemaVersion)))

	if !reset {
		return nil
	}

	if !yes {
		fmt.Fprint(out, cli.FormatPrompt("This deletes every stored record. Type 'yes' to continue"))
		answer, err := cli.NewNonBlockingReader(cmd.InOrStdin()).ReadLine(ctx)
		if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "yes") {
			fmt.Fprintln(out, cli.FormatInfo("Ledger left unchanged."))
			return nil
		}
	}

	backup, err := store.AutoBackup(ctx, "reset-ledger")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatInfo("Backed up the database to "+backup.Path))

	deleted, err := store.ResetLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d records. Categories and keywords were kept.", deleted)))

	return nil
}
