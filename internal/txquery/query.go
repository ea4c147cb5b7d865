// Package txquery filters and sorts transaction lists.
package txquery

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

// DateMode selects how DateFrom and DateTo restrict transaction dates.
type DateMode string

// Date modes.
const (
	DateAny     DateMode = "any"
	DateOn      DateMode = "on"
	DateBefore  DateMode = "before"
	DateAfter   DateMode = "after"
	DateBetween DateMode = "between"
)

// AmountMode selects how Min and Max restrict amounts.
type AmountMode string

// Amount modes.
const (
	AmountAny     AmountMode = "any"
	AmountGreater AmountMode = "gt"
	AmountLess    AmountMode = "lt"
	AmountEqual   AmountMode = "eq"
	AmountBetween AmountMode = "between"
)

// SortField names the column a list is ordered by.
type SortField string

// Sort fields.
const (
	SortDate        SortField = "date"
	SortDescription SortField = "description"
	SortAmount      SortField = "amount"
	SortCategory    SortField = "category"
	SortAccount     SortField = "account"
)

// ErrInvalidQuery is returned by Validate for unknown modes or fields.
var ErrInvalidQuery = errors.New("invalid transaction query")

// Query describes a filtered, sorted view of transactions. The zero value
// matches everything, newest first.
//
// A filter whose bound is missing is ignored: "on", "before" and "after"
// read DateFrom; "gt" and "eq" read Min, "lt" reads Max.
type Query struct {
	Min        *decimal.Decimal
	Max        *decimal.Decimal
	Search     string
	DateMode   DateMode
	DateFrom   string
	DateTo     string
	CategoryID string
	Label      string
	Account    string
	AmountMode AmountMode
	SortBy     SortField
	Ascending  bool
}

// Validate reports unknown modes and sort fields.
func (q Query) Validate() error {
	var errs []error
	switch q.DateMode {
	case "", DateAny, DateOn, DateBefore, DateAfter, DateBetween:
	default:
		errs = append(errs, fmt.Errorf("%w: date mode %q", ErrInvalidQuery, q.DateMode))
	}
	switch q.AmountMode {
	case "", AmountAny, AmountGreater, AmountLess, AmountEqual, AmountBetween:
	default:
		errs = append(errs, fmt.Errorf("%w: amount mode %q", ErrInvalidQuery, q.AmountMode))
	}
	switch q.SortBy {
	case "", SortDate, SortDescription, SortAmount, SortCategory, SortAccount:
	default:
		errs = append(errs, fmt.Errorf("%w: sort field %q", ErrInvalidQuery, q.SortBy))
	}
	for _, bound := range []string{q.DateFrom, q.DateTo} {
		if bound == "" {
			continue
		}
		if _, err := period.ParseISODate(bound); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidQuery, err))
		}
	}
	return errors.Join(errs...)
}

// Apply returns the transactions matching q in the requested order. The
// input slice is not modified.
func Apply(txs []model.Transaction, cats []model.Category, q Query) []model.Transaction {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if matches(tx, names, q) {
			out = append(out, tx.Clone())
		}
	}

	less := lessFunc(q.SortBy, names)
	sort.SliceStable(out, func(i, j int) bool {
		if q.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func matches(tx model.Transaction, names map[string]string, q Query) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		haystack := strings.ToLower(strings.Join([]string{
			tx.Description, tx.Note, names[tx.CategoryID], tx.Account, strings.Join(tx.Labels, ", "),
		}, " "))
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	if !matchDate(tx.Date, q) {
		return false
	}
	if q.CategoryID != "" && tx.CategoryID != q.CategoryID {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Label)); term != "" && !hasLabel(tx.Labels, term) {
		return false
	}
	if q.Account != "" && tx.Account != q.Account {
		return false
	}
	return matchAmount(tx.Amount, q)
}

func hasLabel(labels []string, term string) bool {
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), term) {
			return true
		}
	}
	return false
}

func matchDate(date string, q Query) bool {
	if q.DateMode == "" || q.DateMode == DateAny {
		return true
	}
	from, to := isoOrEmpty(q.DateFrom), isoOrEmpty(q.DateTo)
	if from == "" || (q.DateMode == DateBetween && to == "") {
		return true
	}
	d := isoOrEmpty(date)
	if d == "" {
		return false
	}

	switch q.DateMode {
	case DateOn:
		return d == from
	case DateBefore:
		return d <= from
	case DateAfter:
		return d >= from
	case DateBetween:
		return d >= from && d <= to
	default:
		return true
	}
}

// isoOrEmpty normalizes a date to YYYY-MM-DD so plain string comparison
// orders dates.
func isoOrEmpty(s string) string {
	if s == "" {
		return ""
	}
	d, err := period.ParseISODate(s)
	if err != nil {
		return ""
	}
	return period.FormatISODate(d)
}

func matchAmount(a decimal.Decimal, q Query) bool {
	switch q.AmountMode {
	case AmountGreater:
		return q.Min == nil || a.GreaterThan(*q.Min)
	case AmountLess:
		return q.Max == nil || a.LessThan(*q.Max)
	case AmountEqual:
		return q.Min == nil || a.Equal(*q.Min)
	case AmountBetween:
		if q.Min == nil || q.Max == nil {
			return true
		}
		return a.GreaterThanOrEqual(*q.Min) && a.LessThanOrEqual(*q.Max)
	default:
		return true
	}
}

func lessFunc(field SortField, names map[string]string) func(a, b model.Transaction) bool {
	switch field {
	case SortDescription:
		return func(a, b model.Transaction) bool {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
	case SortAmount:
		return func(a, b model.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	case SortCategory:
		return func(a, b model.Transaction) bool {
			return strings.ToLower(names[a.CategoryID]) < strings.ToLower(names[b.CategoryID])
		}
	case SortAccount:
		return func(a, b model.Transaction) bool {
			return strings.ToLower(a.Account) < strings.ToLower(b.Account)
		}
	default:
		return func(a, b model.Transaction) bool { return a.Date < b.Date }
	}
}
