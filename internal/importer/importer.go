package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/Veraticus/budget-dashboard/internal/classification"
	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/service"
)

// DefaultFuzzyDistance is the largest edit distance accepted when matching a
// category name that has no exact match.
const DefaultFuzzyDistance = 1

// minFuzzyNameLength keeps short names from matching each other loosely.
const minFuzzyNameLength = 5

// Options controls category resolution during import.
type Options struct {
	// FuzzyDistance is the maximum edit distance for fuzzy name matches;
	// zero disables fuzzy matching.
	FuzzyDistance int
	// Fabricate creates a root category for names that match nothing.
	Fabricate bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{FuzzyDistance: DefaultFuzzyDistance, Fabricate: true}
}

// Result summarizes an import or preview.
type Result struct {
	Transactions []model.Transaction // mapped rows, with CategoryID resolved
	Created      []string            // names of fabricated categories
	Errors       []error
	Imported     int
	Duplicates   int
	Exact        int
	Fuzzy        int
	Unmatched    int
}

// Importer resolves parsed records against a store and appends them.
type Importer struct {
	store service.Storage
	opts  Options
}

// New creates an importer writing to store.
func New(store service.Storage, opts Options) *Importer {
	return &Importer{store: store, opts: opts}
}

// Preview maps a batch without modifying the store. Categories that would
// be fabricated are listed in Result.Created but left unassigned.
func (im *Importer) Preview(ctx context.Context, batch Batch) (Result, error) {
	return im.run(ctx, batch, true)
}

// Import maps a batch, skips rows already present in the store or repeated
// within the batch, and appends the rest.
func (im *Importer) Import(ctx context.Context, batch Batch) (Result, error) {
	return im.run(ctx, batch, false)
}

func (im *Importer) run(ctx context.Context, batch Batch, dryRun bool) (Result, error) {
	res := Result{Errors: append([]error(nil), batch.Errors...)}

	cats, err := im.store.Categories(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load categories: %w", err)
	}
	existing, err := im.store.Transactions(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load transactions: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].Hash()] = true
	}
	pending := make(map[string]bool)

	for _, rec := range batch.Records {
		tx := rec.Transaction.Clone()

		hash := tx.Hash()
		if seen[hash] {
			res.Duplicates++
			slog.Debug("skipping duplicate transaction",
				"source", batch.Source, "line", rec.Line, "date", tx.Date, "description", tx.Description)
			continue
		}
		seen[hash] = true

		if rec.Category != "" {
			id, err := im.resolveCategory(ctx, &cats, rec, &res, pending, dryRun)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", rec.Line, err))
				continue
			}
			tx.CategoryID = id
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if dryRun || len(res.Transactions) == 0 {
		return res, nil
	}

	added, err := im.store.AddTransactions(ctx, res.Transactions)
	if err != nil {
		return res, fmt.Errorf("failed to store transactions: %w", err)
	}
	res.Transactions = added
	res.Imported = len(added)

	slog.Info("imported transactions",
		"source", batch.Source,
		"imported", res.Imported,
		"duplicates", res.Duplicates,
		"created_categories", len(res.Created),
		"errors", len(res.Errors))
	return res, nil
}

// resolveCategory finds the category for a record by exact name, then by
// fuzzy name, then by fabrication. cats is extended with fabricated
// categories so later rows match them exactly.
func (im *Importer) resolveCategory(ctx context.Context, cats *[]model.Category, rec Record, res *Result,
	pending map[string]bool, dryRun bool) (string, error) {
	name := rec.Category

	if c, ok := matchExact(*cats, name); ok {
		res.Exact++
		return c.ID, nil
	}
	if c, dist, ok := matchFuzzy(*cats, name, im.opts.FuzzyDistance); ok {
		res.Fuzzy++
		slog.Debug("fuzzy category match", "name", name, "category", c.Name, "distance", dist)
		return c.ID, nil
	}
	if !im.opts.Fabricate {
		res.Unmatched++
		return "", nil
	}

	key := strings.ToLower(name)
	if dryRun {
		if !pending[key] {
			pending[key] = true
			res.Created = append(res.Created, name)
		}
		return "", nil
	}

	typ := classification.InferFromAmount(name, rec.Transaction.Amount)
	c, created, err := im.store.EnsureCategory(ctx, name, typ)
	if err != nil {
		return "", fmt.Errorf("failed to create category %q: %w", name, err)
	}
	if created {
		res.Created = append(res.Created, c.Name)
		*cats = append(*cats, c)
		slog.Info("created category from import", "name", c.Name, "type", c.Type)
	}
	return c.ID, nil
}

func matchExact(cats []model.Category, name string) (model.Category, bool) {
	for _, c := range cats {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}
	return model.Category{}, false
}

// matchFuzzy returns the closest category within maxDist edits. Both names
// must be at least minFuzzyNameLength runes long. Ties go to the first
// category in store order.
func matchFuzzy(cats []model.Category, name string, maxDist int) (model.Category, int, bool) {
	if maxDist <= 0 || utf8.RuneCountInString(name) < minFuzzyNameLength {
		return model.Category{}, 0, false
	}

	lower := strings.ToLower(name)
	best, bestDist := -1, maxDist+1
	for i, c := range cats {
		candidate := strings.ToLower(strings.TrimSpace(c.Name))
		if utf8.RuneCountInString(candidate) < minFuzzyNameLength {
			continue
		}
		if d := levenshtein.ComputeDistance(lower, candidate); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return model.Category{}, 0, false
	}
	return cats[best], bestDist, true
}
