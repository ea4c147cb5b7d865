// Package importer turns CSV and OFX exports and category outlines into
// store contents.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
	"github.com/Veraticus/budget-dashboard/internal/period"
)

// Header detection errors.
var (
	ErrMissingDateColumn   = errors.New("no date column")
	ErrMissingAmountColumn = errors.New("no amount column")
	ErrEmptyInput          = errors.New("input has no header row")
)

// Row errors.
var (
	ErrInvalidDate   = errors.New("unrecognized date")
	ErrInvalidAmount = errors.New("unrecognized amount")
)

// Header candidates, most specific first. A header matches a candidate when
// it contains it, ignoring case.
var (
	dateHeaders        = []string{"date"}
	descriptionHeaders = []string{"description", "merchant", "memo", "details", "narration", "payee"}
	amountHeaders      = []string{"amount in base currency", "amount", "value"}
	categoryHeaders    = []string{"category"}
	accountHeaders     = []string{"account"}
	labelHeaders       = []string{"labels", "tags", "label", "tag"}
	noteHeaders        = []string{"note"}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

var (
	categorySeparator = regexp.MustCompile(`[>:]`)
	labelSeparator    = regexp.MustCompile(`[;,]`)
	amountNoise       = regexp.MustCompile(`[\s,'$€£¥₹]|[A-Za-z]{3}$|^[A-Za-z]{3}`)
)

// Columns holds the index of each recognized column, or -1 when absent.
type Columns struct {
	Date        int
	Description int
	Amount      int
	Category    int
	Account     int
	Labels      int
	Note        int
}

// Record is one parsed row. Category holds the last segment of the category
// path as written in the file; the transaction's CategoryID is not set.
type Record struct {
	Transaction model.Transaction
	Category    string
	Line        int
}

// Batch is the parsed content of one input.
type Batch struct {
	Source  string
	Records []Record
	Errors  []error // per-row problems; those rows are not in Records
}

// DetectColumns maps header names to columns. Date and amount are required.
func DetectColumns(headers []string) (Columns, error) {
	cols := Columns{
		Date:        findHeader(headers, dateHeaders),
		Description: findHeader(headers, descriptionHeaders),
		Amount:      findHeader(headers, amountHeaders),
		Category:    findHeader(headers, categoryHeaders),
		Account:     findHeader(headers, accountHeaders),
		Labels:      findHeader(headers, labelHeaders),
		Note:        findHeader(headers, noteHeaders),
	}

	var errs []error
	if cols.Date < 0 {
		errs = append(errs, ErrMissingDateColumn)
	}
	if cols.Amount < 0 {
		errs = append(errs, ErrMissingAmountColumn)
	}
	if len(errs) > 0 {
		return cols, fmt.Errorf("unsupported CSV header %q: %w", strings.Join(headers, ","), errors.Join(errs...))
	}
	return cols, nil
}

func findHeader(headers, candidates []string) int {
	for _, cand := range candidates {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), cand) {
				return i
			}
		}
	}
	return -1
}

// ParseCSV reads a headed CSV export. Rows that cannot be mapped are
// reported in Batch.Errors with their line number and do not stop parsing.
func ParseCSV(r io.Reader) (Batch, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Batch{}, ErrEmptyInput
	}
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	cols, err := DetectColumns(headers)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			batch.Errors = append(batch.Errors, err)
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}

		rec, err := mapRow(row, cols)
		if err != nil {
			batch.Errors = append(batch.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		rec.Line = line
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

func mapRow(row []string, cols Columns) (Record, error) {
	date, err := ParseDate(cell(row, cols.Date))
	if err != nil {
		return Record{}, err
	}
	amount, err := ParseAmount(cell(row, cols.Amount))
	if err != nil {
		return Record{}, err
	}

	return Record{
		Transaction: model.Transaction{
			Date:        date,
			Description: cell(row, cols.Description),
			Amount:      amount,
			Account:     cell(row, cols.Account),
			Note:        cell(row, cols.Note),
			Labels:      SplitLabels(cell(row, cols.Labels)),
		},
		Category: LastPathSegment(cell(row, cols.Category)),
	}, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseDate normalizes a date cell to YYYY-MM-DD. Day-first slash dates are
// tried before month-first ones.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return period.FormatISODate(t), nil
		}
	}
	// Timestamps with trailing time parts.
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return period.FormatISODate(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseAmount reads a money cell, tolerating thousands separators, currency
// symbols or codes, and accounting-style parentheses for negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	cleaned := amountNoise.ReplaceAllString(raw, "")

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// LastPathSegment returns the leaf of a "Parent > Child" or "Parent:Child"
// category path.
func LastPathSegment(path string) string {
	parts := categorySeparator.Split(path, -1)
	return strings.TrimSpace(parts[len(parts)-1])
}

// SplitLabels splits a label cell on commas and semicolons.
func SplitLabels(s string) []string {
	var out []string
	for _, l := range labelSeparator.Split(s, -1) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
