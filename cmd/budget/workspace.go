package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budget-dashboard/internal/common"
	"github.com/Veraticus/budget-dashboard/internal/config"
	"github.com/Veraticus/budget-dashboard/internal/importer"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/report"
	"github.com/Veraticus/budget-dashboard/internal/sample"
	"github.com/Veraticus/budget-dashboard/internal/service"
	"github.com/Veraticus/budget-dashboard/internal/storage"
)

// workspace is the data one invocation works on.
type workspace struct {
	today    time.Time
	store    service.Storage
	out      io.Writer
	errOut   io.Writer
	settings config.Settings
}

// loadWorkspace reads the settings and fills an in-memory store from the
// configured sources.
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	ctx := cmd.Context()

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}

	ws := &workspace{
		settings: settings,
		store:    storage.NewMemoryStorage(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		today:    settings.Today,
	}
	if ws.today.IsZero() {
		ws.today = time.Now()
	}

	cats, err := ws.categorySource()
	if err != nil {
		return nil, err
	}
	if err := ws.store.LoadCategories(ctx, cats); err != nil {
		return nil, common.NewUserError("Invalid category tree", err)
	}

	var txs []model.Transaction
	if settings.Data.Sample {
		txs = append(txs, sample.Transactions()...)
	}
	var files []string
	for _, path := range settings.Data.Transactions {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			loaded, err := readTransactionsJSON(path)
			if err != nil {
				return nil, err
			}
			txs = append(txs, loaded...)
			continue
		}
		files = append(files, path)
	}
	if err := ws.store.LoadTransactions(ctx, txs); err != nil {
		return nil, common.NewUserError("Invalid transactions", err)
	}

	if len(files) > 0 {
		batches, err := importer.LoadFiles(ctx, files, importer.LoadOptions{})
		if err != nil {
			return nil, common.NewUserError("Could not read transaction files", err)
		}
		im := importer.New(ws.store, settings.Import)
		for _, batch := range batches {
			res, err := im.Import(ctx, batch)
			if err != nil {
				return nil, fmt.Errorf("failed to import %s: %w", batch.Source, err)
			}
			for _, rowErr := range res.Errors {
				slog.Warn("Skipped row", "source", batch.Source, "error", rowErr)
			}
		}
	}

	return ws, nil
}

// categorySource picks the category tree: a categories file, then the
// inline config list, then the sample tree when sample data is on.
func (ws *workspace) categorySource() ([]model.Category, error) {
	data := ws.settings.Data
	switch {
	case data.CategoriesFile != "":
		return readCategoriesFile(data.CategoriesFile)
	case len(ws.settings.Categories) > 0:
		return ws.settings.Categories, nil
	case data.Sample:
		return sample.Categories(), nil
	default:
		return nil, nil
	}
}

func readCategoriesFile(path string) ([]model.Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError("Could not read the categories file", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var cats []model.Category
		if err := json.Unmarshal(raw, &cats); err != nil {
			return nil, common.NewUserError("Could not parse the categories file", fmt.Errorf("%s: %w", path, err))
		}
		return cats, nil
	}

	cats, err := importer.ParseOutline(string(raw))
	if err != nil {
		return nil, common.NewUserError("Could not parse the category outline", fmt.Errorf("%s: %w", path, err))
	}
	return cats, nil
}

func readTransactionsJSON(path string) ([]model.Transaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError("Could not read transactions", err)
	}
	var txs []model.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil, common.NewUserError("Could not parse transactions", fmt.Errorf("%s: %w", path, err))
	}
	return txs, nil
}

func (ws *workspace) renderOptions() report.Options {
	return report.Options{Color: ws.settings.Output.Color}
}

func (ws *workspace) jsonOutput() bool {
	return ws.settings.Output.Format == config.FormatJSON
}

// snapshot returns the current store contents.
func (ws *workspace) snapshot(ctx context.Context) (storage.Snapshot, error) {
	snap, err := ws.store.Snapshot(ctx)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("failed to read store: %w", err)
	}
	return snap, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
