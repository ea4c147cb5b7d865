// Package report renders statements, category trees and transaction lists
// for the terminal and as JSON.
package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Options controls terminal rendering.
type Options struct {
	// Color enables lipgloss styling. Tests and pipes leave it off.
	Color bool
}

func (o Options) paint(style lipgloss.Style, s string) string {
	if !o.Color {
		return s
	}
	return style.Render(s)
}

// FormatAmount renders d with two decimals and comma thousands grouping,
// e.g. 16,000.00 or -1,234.50.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	negative := strings.HasPrefix(s, "-")
	intPart, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercent renders a ratio as a percentage with two decimals, so
// 0.986875 becomes 98.69%.
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(2) + "%"
}

// percentCell formats ratio, or returns an empty cell when the denominator
// of the ratio was zero.
func percentCell(ratio, denominator decimal.Decimal) string {
	if denominator.IsZero() {
		return ""
	}
	return FormatPercent(ratio)
}
