package importer

import (
	"fmt"
	"strings"

	"github.com/Veraticus/budget-dashboard/internal/classification"
	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
)

// OutlinePathSeparator joins ancestor names into outline category ids.
const OutlinePathSeparator = " > "

// ParseOutline reads a dash-indented category outline:
//
//	Income
//	-Salary
//	--Bonus
//	Food [expense]
//
// Each dash is one level. A category's id is its name path joined with
// " > ". Types come from the name heuristic unless the line ends with an
// [income] or [expense] tag.
func ParseOutline(text string) ([]model.Category, error) {
	type node struct {
		cat  model.Category
		path string
	}

	var cats []model.Category
	seen := make(map[string]int)
	lastByLevel := make(map[int]node)

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.ReplaceAll(raw, "\r", ""))
		if line == "" {
			continue
		}

		level := len(line) - len(strings.TrimLeft(line, "-"))
		name, typ, tagged := splitTypeTag(strings.TrimSpace(line[level:]))
		if name == "" {
			continue
		}

		var parent *node
		if level > 0 {
			if p, ok := lastByLevel[level-1]; ok {
				parent = &p
			}
		}

		path := name
		if parent != nil {
			path = parent.path + OutlinePathSeparator + name
		}
		if first, dup := seen[path]; dup {
			return nil, fmt.Errorf("line %d: %w: %q (first on line %d)", i+1, ledger.ErrDuplicateCategory, path, first)
		}
		seen[path] = i + 1

		cat := model.Category{ID: path, Name: name, Type: typ}
		if parent != nil {
			cat.ParentID = parent.cat.ID
		}
		if !tagged {
			parentName := ""
			if parent != nil {
				parentName = parent.cat.Name
			}
			cat.Type = classification.InferCategoryType(name, parentName)
		}

		cats = append(cats, cat)
		lastByLevel[level] = node{cat: cat, path: path}
		// A shallower line closes every deeper branch.
		for l := range lastByLevel {
			if l > level {
				delete(lastByLevel, l)
			}
		}
	}
	return cats, nil
}

func splitTypeTag(s string) (string, model.CategoryType, bool) {
	open := strings.LastIndex(s, "[")
	if open < 0 || !strings.HasSuffix(s, "]") {
		return s, "", false
	}
	typ, ok := model.ParseCategoryType(s[open+1 : len(s)-1])
	if !ok {
		return s, "", false
	}
	return strings.TrimSpace(s[:open]), typ, true
}

// FormatOutline writes categories as an outline that ParseOutline reads
// back to the same names, nesting and types. Ids are not preserved.
func FormatOutline(cats []model.Category) string {
	forest := ledger.NewForest(cats)
	var b strings.Builder
	forest.Walk(func(c model.Category, depth int) {
		b.WriteString(strings.Repeat("-", depth))
		b.WriteString(c.Name)

		parentName := ""
		if p, ok := forest.Get(c.ParentID); ok {
			parentName = p.Name
		}
		if classification.InferCategoryType(c.Name, parentName) != c.Type {
			fmt.Fprintf(&b, " [%s]", c.Type)
		}
		b.WriteByte('\n')
	})
	return b.String()
}
