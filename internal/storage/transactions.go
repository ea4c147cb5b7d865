package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Transactions returns all transactions in insertion order.
func (s *MemoryStorage) Transactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTransactions(s.transactions), nil
}

// LoadTransactions replaces all transactions. Positive unique ids are kept;
// missing or repeated ids are reassigned after the highest kept id.
func (s *MemoryStorage) LoadTransactions(ctx context.Context, txs []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range txs {
		if err := validateTransaction(&txs[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}

	loaded := cloneTransactions(txs)
	seen := make(map[int]bool, len(loaded))
	maxID := 0
	for _, tx := range loaded {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	for i := range loaded {
		if loaded[i].ID <= 0 || seen[loaded[i].ID] {
			maxID++
			loaded[i].ID = maxID
		}
		seen[loaded[i].ID] = true
	}

	s.mu.Lock()
	s.transactions = loaded
	s.mu.Unlock()

	slog.Debug("loaded transactions", "count", len(loaded))
	return nil
}

// AddTransaction appends a transaction under a fresh id and returns it.
func (s *MemoryStorage) AddTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	added, err := s.AddTransactions(ctx, []model.Transaction{tx})
	if err != nil {
		return model.Transaction{}, err
	}
	return added[0], nil
}

// AddTransactions appends transactions with sequential ids following the
// current maximum. Either all are added or none.
func (s *MemoryStorage) AddTransactions(ctx context.Context, txs []model.Transaction) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransactions(txs); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.maxTransactionID() + 1
	added := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		tx = tx.Clone()
		tx.ID = next
		next++
		s.transactions = append(s.transactions, tx)
		added[i] = tx.Clone()
	}

	slog.Debug("added transactions", "count", len(added))
	return added, nil
}

// GetTransaction returns the transaction with the given id.
func (s *MemoryStorage) GetTransaction(ctx context.Context, id int) (model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return model.Transaction{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.transactionIndex(id)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
	}
	return s.transactions[i].Clone(), nil
}

// UpdateTransaction replaces the stored transaction with the same id.
func (s *MemoryStorage) UpdateTransaction(ctx context.Context, tx model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(tx.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTransactionNotFound, tx.ID)
	}
	s.transactions[i] = tx.Clone()
	return nil
}

// DeleteTransactions removes the given transactions. Unknown ids are an
// error and nothing is removed.
func (s *MemoryStorage) DeleteTransactions(ctx context.Context, ids ...int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids", ErrEmptySlice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remove, err := s.idSet(ids)
	if err != nil {
		return 0, err
	}

	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if !remove[tx.ID] {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept

	slog.Info("deleted transactions", "count", len(remove))
	return len(remove), nil
}

// Recategorize assigns categoryID to the given transactions. An empty
// categoryID clears the assignment.
func (s *MemoryStorage) Recategorize(ctx context.Context, ids []int, categoryID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if categoryID != "" && s.categoryIndex(categoryID) < 0 {
		return 0, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	targets, err := s.idSet(ids)
	if err != nil {
		return 0, err
	}

	for i := range s.transactions {
		if targets[s.transactions[i].ID] {
			s.transactions[i].CategoryID = categoryID
		}
	}

	slog.Debug("recategorized transactions", "count", len(targets), "category", categoryID)
	return len(targets), nil
}

// ApplyLabels merges labels into the given transactions, keeping existing
// labels first and skipping case-insensitive duplicates.
func (s *MemoryStorage) ApplyLabels(ctx context.Context, ids []int, labels []string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(model.MergeLabels(nil, labels...)) == 0 {
		return 0, fmt.Errorf("%w: labels", ErrEmptySlice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.idSet(ids)
	if err != nil {
		return 0, err
	}

	for i := range s.transactions {
		if targets[s.transactions[i].ID] {
			s.transactions[i].Labels = model.MergeLabels(s.transactions[i].Labels, labels...)
		}
	}
	return len(targets), nil
}

func (s *MemoryStorage) maxTransactionID() int {
	maxID := 0
	for _, tx := range s.transactions {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	return maxID
}

func (s *MemoryStorage) transactionIndex(id int) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// idSet resolves ids to a set, failing on the first unknown id.
func (s *MemoryStorage) idSet(ids []int) (map[int]bool, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids", ErrEmptySlice)
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		if s.transactionIndex(id) < 0 {
			return nil, fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
		}
		set[id] = true
	}
	return set, nil
}
