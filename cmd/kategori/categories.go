package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/Veraticus/kategori/internal/common"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List and add the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display every category with the number used to pick it during import.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.Categories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'kategori categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("#"),
				headerStyle.Render("Name"),
				headerStyle.Render("Created"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 3),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10))

			for _, cat := range categories {
				created := cli.SubtleStyle.Render("-")
				if !cat.CreatedAt.IsZero() {
					created = cat.CreatedAt.Format("02.01.2006")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", cat.Position, cat.Name, created)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a new category. Adding a category that already exists does nothing.

InnPåKonto and Uncategorized are built in and cannot be added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			name := strings.TrimSpace(args[0])

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.AddCategory(ctx, name)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Could not add category %q", name), err)
			}

			if !created {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Category %q already exists", name)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added category %q", name)))
			return nil
		},
	}
}
