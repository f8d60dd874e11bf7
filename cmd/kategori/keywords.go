package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/kategori/internal/cli"
	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage learned keywords",
		Long: `List, add and review the keywords used to match transaction descriptions.

A description matches a keyword when it contains the keyword, ignoring case.
When several keywords match, the longest one decides the category.`,
	}

	cmd.AddCommand(listKeywordsCmd())
	cmd.AddCommand(addKeywordCmd())
	cmd.AddCommand(conflictsCmd())

	return cmd
}

func listKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List keywords, optionally for one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var keywords []model.Keyword
			if len(args) == 1 {
				if _, catErr := store.GetCategory(ctx, args[0]); catErr != nil {
					return common.NewUserError(fmt.Sprintf("Unknown category %q", args[0]), catErr)
				}
				keywords, err = store.KeywordsForCategory(ctx, args[0])
			} else {
				keywords, err = store.Keywords(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to get keywords: %w", err)
			}

			if len(keywords) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No keywords found. Keywords are learned during import or added with 'kategori keywords add'."))
				return nil
			}

			printKeywords(cmd, keywords)
			return nil
		},
	}
}

func addKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <keyword>",
		Short: "Teach a keyword for an existing category",
		Long: `Store a keyword for a category. The keyword is stored exactly as given;
matching ignores case. Quote keywords that contain spaces.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			category, keyword := args[0], args[1]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.AddKeyword(ctx, category, keyword)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Could not add keyword %q to %q", keyword, category), err)
			}

			if !added {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Keyword %q is already stored for %q", keyword, category)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added keyword %q to %q", keyword, category)))
			return nil
		},
	}
}

func conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List keywords stored under more than one category",
		Long: `Show keywords that belong to several categories. When such a keyword is the
longest match, the category that sorts first wins; review these to keep
matching predictable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			shared, err := store.SharedKeywords(ctx)
			if err != nil {
				return fmt.Errorf("failed to get shared keywords: %w", err)
			}

			if len(shared) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("No keyword is shared between categories."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%d keyword entries are shared between categories:", len(shared))))
			printKeywords(cmd, shared)
			return nil
		},
	}
}

func printKeywords(cmd *cobra.Command, keywords []model.Keyword) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Category"), headerStyle.Render("Keyword"))
	fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 20), strings.Repeat("-", 30))

	for _, kw := range keywords {
		fmt.Fprintf(w, "%s\t%s\n", kw.Category, kw.Keyword)
	}
}
