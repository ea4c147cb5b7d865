package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/budget-dashboard/internal/ofx"
)

// maxParallelFiles bounds how many files are parsed at once.
const maxParallelFiles = 4

// LoadOptions controls multi-file loading.
type LoadOptions struct {
	// OnFileParsed, when set, is called once per file after parsing. It may
	// be called from several goroutines.
	OnFileParsed func(path string, records int)
}

// IsOFX reports whether path names an OFX or QFX file.
func IsOFX(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return true
	}
	return false
}

// LoadFiles parses files concurrently and returns one batch per path in
// argument order. The first file that cannot be read or parsed cancels
// the rest.
func LoadFiles(ctx context.Context, paths []string, opts LoadOptions) ([]Batch, error) {
	batches := make([]Batch, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := LoadFile(ctx, path)
			if err != nil {
				return err
			}
			batches[i] = batch
			if opts.OnFileParsed != nil {
				opts.OnFileParsed(path, len(batch.Records))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// LoadFile parses a single CSV, OFX or QFX file.
func LoadFile(ctx context.Context, path string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if IsOFX(path) {
		txs, err := ofx.NewParser().ParseFile(ctx, f)
		if err != nil {
			return Batch{}, fmt.Errorf("%s: %w", path, err)
		}
		batch := Batch{Source: path, Records: make([]Record, len(txs))}
		for i, tx := range txs {
			batch.Records[i] = Record{Transaction: tx, Line: i + 1}
		}
		return batch, nil
	}

	batch, err := ParseCSV(f)
	if err != nil {
		return Batch{}, fmt.Errorf("%s: %w", path, err)
	}
	batch.Source = path
	for i := range batch.Errors {
		batch.Errors[i] = fmt.Errorf("%s: %w", filepath.Base(path), batch.Errors[i])
	}
	return batch, nil
}
