package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-dashboard/internal/classification"
	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/importer"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/report"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect and edit the category tree",
		Long: `Show, validate, export and edit the income and expense category tree.

Edits apply to the tree loaded for this run and print the result.`,
	}

	cmd.AddCommand(categoryTreeCmd())
	cmd.AddCommand(validateCategoriesCmd())
	cmd.AddCommand(exportCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func categoryTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			return ws.renderCategories(cmd)
		},
	}
}

func (ws *workspace) renderCategories(cmd *cobra.Command) error {
	cats, err := ws.store.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	if ws.jsonOutput() {
		if cats == nil {
			cats = []model.Category{}
		}
		return writeJSON(ws.out, cats)
	}
	return report.RenderTree(ws.out, cats, ws.renderOptions())
}

func validateCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a category tree for structural problems",
		Long: `Check a category outline or JSON file, or the configured tree when no
file is given, for empty or duplicate ids, unknown parents and cycles.
Categories whose type differs from their parent's are reported as warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []model.Category
			if len(args) == 1 {
				var err error
				if cats, err = readCategoriesFile(args[0]); err != nil {
					return err
				}
			} else {
				ws, err := loadWorkspace(cmd)
				if err != nil {
					return err
				}
				if cats, err = ws.store.Categories(cmd.Context()); err != nil {
					return fmt.Errorf("failed to get categories: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			for _, m := range ledger.TypeMismatches(cats) {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s is %s but its parent %s is %s",
					m.Category.Name, m.Category.Type, m.Parent.Name, m.Parent.Type)))
			}

			if err := ledger.ValidateForest(cats); err != nil {
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Fprintln(out, cli.FormatError(line))
				}
				return common.NewUserError("Category tree is invalid", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d categories, tree is valid", len(cats))))
			return nil
		},
	}
}

func exportCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the category tree as an outline",
		Long: `Print the category tree in the outline format read by --categories:
one name per line, nested with leading dashes, with an [income] or
[expense] tag where the name alone would suggest the other type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			cats, err := ws.store.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			_, err = fmt.Fprint(ws.out, importer.FormatOutline(cats))
			return err
		},
	}
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category and show the resulting tree",
		Long: `Add a category under an optional parent. Without --type the type is
inferred from the name and the parent's name, and a child of an existing
parent takes the parent's type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			id, _ := cmd.Flags().GetString("id")
			parentID, _ := cmd.Flags().GetString("parent")
			typeFlag, _ := cmd.Flags().GetString("type")

			cat := model.Category{ID: id, Name: strings.TrimSpace(args[0]), ParentID: parentID}
			parentName := ""
			if parentID != "" {
				parent, err := ws.store.GetCategory(ctx, parentID)
				if err != nil {
					return common.NewUserError("Unknown parent category", err)
				}
				parentName = parent.Name
				cat.Type = parent.Type
			}
			switch {
			case typeFlag != "":
				typ, ok := model.ParseCategoryType(typeFlag)
				if !ok {
					return common.NewUserError(fmt.Sprintf("Type must be income or expense, got %q", typeFlag), nil)
				}
				cat.Type = typ
			case cat.Type == "":
				cat.Type = classification.InferCategoryType(cat.Name, parentName)
			}

			added, err := ws.store.AddCategory(ctx, cat)
			if err != nil {
				return common.NewUserError("Could not add the category", err)
			}
			fmt.Fprintln(ws.errOut, cli.FormatSuccess(fmt.Sprintf("Added %s (%s) as %s", added.Name, added.Type, added.ID)))
			return ws.renderCategories(cmd)
		},
	}

	cmd.Flags().String("id", "", "category id (default: next free cat-N)")
	cmd.Flags().String("parent", "", "parent category id")
	cmd.Flags().String("type", "", "income or expense (default: inferred)")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category with its subcategories",
		Long: `Delete a category and every category below it. Transactions filed under
a deleted category become uncategorised. Asks for confirmation unless
--yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			cat, err := ws.store.GetCategory(ctx, args[0])
			if err != nil {
				return common.NewUserError("Unknown category", err)
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), ws.errOut,
					fmt.Sprintf("Delete %q and all of its subcategories?", cat.Name))
				if err != nil {
					if errors.Is(err, cli.ErrInputCancelled) {
						return common.ErrAborted
					}
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if !ok {
					fmt.Fprintln(ws.errOut, cli.FormatInfo("Nothing deleted."))
					return nil
				}
			}

			res, err := ws.store.DeleteCategory(ctx, cat.ID)
			if err != nil {
				return common.NewUserError("Could not delete the category", err)
			}
			fmt.Fprintln(ws.errOut, cli.FormatSuccess(fmt.Sprintf(
				"Deleted %d categor%s, %d transaction(s) now uncategorised",
				len(res.Removed), plural(len(res.Removed), "y", "ies"), res.Cleared)))
			return ws.renderCategories(cmd)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
