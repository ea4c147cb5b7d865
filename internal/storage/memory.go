package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Snapshot is a deep copy of the store contents.
type Snapshot struct {
	Transactions []model.Transaction
	Categories   []model.Category
}

// MemoryStorage keeps transactions and categories in memory. All reads
// return copies, so callers may freely modify what they get back.
type MemoryStorage struct {
	transactions   []model.Transaction
	categories     []model.Category
	nextCategoryID int
	mu             sync.RWMutex
}

// NewMemoryStorage creates an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextCategoryID: 1}
}

// Snapshot returns a copy of everything in the store.
func (s *MemoryStorage) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Transactions: cloneTransactions(s.transactions),
		Categories:   append([]model.Category(nil), s.categories...),
	}, nil
}

func cloneTransactions(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.Clone()
	}
	return out
}
