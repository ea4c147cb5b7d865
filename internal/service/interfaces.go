// Package service defines the interfaces shared by the application layers.
package service

import (
	"context"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/storage"
)

// Storage defines the contract for the transaction and category store.
type Storage interface {
	// Transaction operations
	Transactions(ctx context.Context) ([]model.Transaction, error)
	LoadTransactions(ctx context.Context, txs []model.Transaction) error
	AddTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	AddTransactions(ctx context.Context, txs []model.Transaction) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id int) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx model.Transaction) error
	DeleteTransactions(ctx context.Context, ids ...int) (int, error)
	Recategorize(ctx context.Context, ids []int, categoryID string) (int, error)
	ApplyLabels(ctx context.Context, ids []int, labels []string) (int, error)

	// Category operations
	Categories(ctx context.Context) ([]model.Category, error)
	LoadCategories(ctx context.Context, cats []model.Category) error
	GetCategory(ctx context.Context, id string) (model.Category, error)
	FindCategoryByName(ctx context.Context, name string) (model.Category, error)
	AddCategory(ctx context.Context, cat model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, cat model.Category) error
	DeleteCategory(ctx context.Context, id string) (storage.DeleteResult, error)
	EnsureCategory(ctx context.Context, name string, typ model.CategoryType) (model.Category, bool, error)

	Snapshot(ctx context.Context) (storage.Snapshot, error)
}

var _ Storage = (*storage.MemoryStorage)(nil)
