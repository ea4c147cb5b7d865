// Package classification infers whether a category collects income or
// expenses from its name.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Pattern is a named keyword rule mapping matching text to a category type.
type Pattern struct {
	Name       string
	Type       model.CategoryType
	Regex      string
	Priority   int     // Higher priority patterns are checked first
	Confidence float64 // Base confidence when pattern matches (0.0-1.0)
}

type compiledPattern struct {
	regex *regexp.Regexp
	Pattern
}

// Detector matches text against a priority-ordered pattern list.
type Detector struct {
	patterns []compiledPattern
	mu       sync.RWMutex
}

// Match is the outcome of a successful detection.
type Match struct {
	PatternName string
	Type        model.CategoryType
	Confidence  float64
}

// NewDetector compiles patterns. Every pattern is case-insensitive.
func NewDetector(patterns []Pattern) (*Detector, error) {
	compiled, err := compile(patterns)
	if err != nil {
		return nil, err
	}
	return &Detector{patterns: compiled}, nil
}

func compile(patterns []Pattern) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		if !p.Type.Valid() {
			return nil, fmt.Errorf("pattern %s: unknown category type %q", p.Name, p.Type)
		}
		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
		}
		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{Pattern: p, regex: regex})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return compiled, nil
}

// Detect returns the highest priority pattern matching text.
func (d *Detector) Detect(text string) (Match, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return Match{}, false
	}
	for _, p := range d.patterns {
		if !p.regex.MatchString(text) {
			continue
		}
		confidence := p.Confidence
		if strings.EqualFold(text, p.Name) {
			confidence = min(confidence+0.1, 1.0)
		}
		return Match{PatternName: p.Name, Type: p.Type, Confidence: confidence}, true
	}
	return Match{}, false
}

// UpdatePatterns swaps in a new pattern set.
func (d *Detector) UpdatePatterns(patterns []Pattern) error {
	compiled, err := compile(patterns)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.patterns = compiled
	d.mu.Unlock()
	return nil
}

// PatternCount returns the number of loaded patterns.
func (d *Detector) PatternCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.patterns)
}

var defaultDetector = sync.OnceValue(func() *Detector {
	d, err := NewDetector(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return d
})

// InferCategoryType guesses the type of an outline category from its own
// name and its parent's name. Anything without an income keyword is an
// expense.
func InferCategoryType(name, parentName string) model.CategoryType {
	if m, ok := defaultDetector().Detect(strings.TrimSpace(parentName + " " + name)); ok {
		return m.Type
	}
	return model.CategoryTypeExpense
}

// InferFromAmount guesses the type of a category fabricated during import.
// An income keyword wins; otherwise a non-negative amount means income.
func InferFromAmount(name string, amount decimal.Decimal) model.CategoryType {
	if m, ok := defaultDetector().Detect(name); ok {
		return m.Type
	}
	if amount.IsNegative() {
		return model.CategoryTypeExpense
	}
	return model.CategoryTypeIncome
}
