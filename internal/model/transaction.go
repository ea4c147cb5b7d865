package model

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction represents a single income or expense entry.
type Transaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // ISO YYYY-MM-DD
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Account     string          `json:"account,omitempty"`
	Note        string          `json:"note,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	ID          int             `json:"id"`
}

// Hash creates a key for duplicate detection across imports.
func (t *Transaction) Hash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date,
		t.Amount.StringFixed(2),
		strings.ToLower(strings.TrimSpace(t.Description)),
		strings.ToLower(strings.TrimSpace(t.Account)))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsIncomeLike reports whether the amount sign marks the transaction as income.
func (t *Transaction) IsIncomeLike() bool {
	return !t.Amount.IsNegative()
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	if t.Labels != nil {
		t.Labels = append([]string(nil), t.Labels...)
	}
	return t
}

// MergeLabels appends labels not already present (case-insensitive),
// preserving insertion order. Blank labels are dropped.
func MergeLabels(existing []string, add ...string) []string {
	seen := make(map[string]bool, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, l := range append(append([]string(nil), existing...), add...) {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
