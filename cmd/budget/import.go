package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-dashboard/internal/cli"
	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/importer"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/report"
)

type importSummary struct {
	Source     string   `json:"source"`
	Created    []string `json:"createdCategories,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Rows       int      `json:"rows"`
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Exact      int      `json:"exactMatches"`
	Fuzzy      int      `json:"fuzzyMatches"`
	Unmatched  int      `json:"unmatched"`
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import transactions from CSV, OFX or QFX files",
		Long: `Parse transaction files and map them onto the loaded categories.

CSV columns are found by header name; date and amount are required. The
category column is matched by exact name, then by a close spelling, and
unknown names become new root categories unless import.fabricate is off.
Rows already loaded, or repeated in the input, are skipped.

Directories are searched for .csv, .ofx and .qfx files.

Examples:
  # Preview an export without importing it
  budget import --sample --dry-run ~/Downloads/export.csv

  # Import every statement in a folder and show the month
  budget import --categories categories.txt ~/Downloads/statements`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview the mapping without importing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewUserError("No files found to import", nil)
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	slog.Info("Importing transaction files", "file_count", len(files), "dry_run", dryRun)

	opts := importer.LoadOptions{}
	if len(files) > 1 && !ws.jsonOutput() {
		bar := cli.NewProgressBar(ws.errOut, len(files), "Parsing files")
		opts.OnFileParsed = func(string, int) {
			if err := bar.Add(1); err != nil {
				slog.Debug("progress bar update failed", "error", err)
			}
		}
	}

	batches, err := importer.LoadFiles(ctx, files, opts)
	if err != nil {
		return common.NewUserError("Could not read transaction files", err)
	}

	im := importer.New(ws.store, ws.settings.Import)
	summaries := make([]importSummary, 0, len(batches))
	var mapped []model.Transaction
	for _, batch := range batches {
		var res importer.Result
		if dryRun {
			res, err = im.Preview(ctx, batch)
		} else {
			res, err = im.Import(ctx, batch)
		}
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", batch.Source, err)
		}
		summaries = append(summaries, summarize(batch, res))
		mapped = append(mapped, res.Transactions...)
	}

	if ws.jsonOutput() {
		return writeJSON(ws.out, summaries)
	}

	if err := renderImportSummary(ws, summaries, dryRun); err != nil {
		return err
	}

	cats, err := ws.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	fmt.Fprintln(ws.out)
	return report.RenderTransactions(ws.out, mapped, cats, ws.renderOptions())
}

func summarize(batch importer.Batch, res importer.Result) importSummary {
	s := importSummary{
		Source:     batch.Source,
		Created:    res.Created,
		Rows:       len(batch.Records),
		Imported:   res.Imported,
		Duplicates: res.Duplicates,
		Exact:      res.Exact,
		Fuzzy:      res.Fuzzy,
		Unmatched:  res.Unmatched,
	}
	for _, err := range res.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	return s
}

func renderImportSummary(ws *workspace, summaries []importSummary, dryRun bool) error {
	opts := ws.renderOptions()
	header := func(s string) string {
		if opts.Color {
			return cli.TableHeaderStyle.Render(s)
		}
		return s
	}

	title := "📁 Import summary"
	if dryRun {
		title = "🔍 Import preview (nothing imported)"
	}
	fmt.Fprintln(ws.out, title)

	w := tabwriter.NewWriter(ws.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		header("FILE"), header("ROWS"), header("IMPORTED"), header("DUPLICATES"),
		header("EXACT"), header("FUZZY"), header("UNMATCHED"), header("ERRORS"))
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			filepath.Base(s.Source), s.Rows, s.Imported, s.Duplicates,
			s.Exact, s.Fuzzy, s.Unmatched, len(s.Errors))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to render import summary: %w", err)
	}

	for _, s := range summaries {
		if len(s.Created) > 0 {
			verb := "Created"
			if dryRun {
				verb = "Would create"
			}
			fmt.Fprintln(ws.out, cli.FormatInfo(fmt.Sprintf("%s categories from %s: %s",
				verb, filepath.Base(s.Source), strings.Join(s.Created, ", "))))
		}
		for _, e := range s.Errors {
			fmt.Fprintln(ws.errOut, cli.FormatWarning(e))
		}
	}
	return nil
}

// expandInputs turns arguments into a list of files. Directories are
// searched recursively for importable files; other arguments are globs or
// plain paths.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range args {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			err := filepath.WalkDir(pattern, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isImportable(path) {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
			}
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid pattern %s", pattern), err)
		}
		if len(matches) == 0 {
			slog.Warn("No files found matching pattern", "pattern", pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func isImportable(path string) bool {
	return importer.IsOFX(path) || strings.EqualFold(filepath.Ext(path), ".csv")
}
