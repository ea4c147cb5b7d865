package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/budget-dashboard/internal/model"
)

// Forest validation errors.
var (
	ErrEmptyCategoryID   = errors.New("category id cannot be empty")
	ErrDuplicateCategory = errors.New("duplicate category id")
	ErrUnknownParent     = errors.New("parent category does not exist")
	ErrCategoryCycle     = errors.New("category parent chain forms a cycle")
)

// Forest is an arena of categories indexed by id. Nodes whose parent is
// missing are treated as roots so a Forest can always be built.
type Forest struct {
	nodes    map[string]model.Category
	children map[string][]string
	roots    []string
}

// NewForest indexes categories. The first occurrence of a duplicate id wins.
func NewForest(categories []model.Category) *Forest {
	f := &Forest{
		nodes:    make(map[string]model.Category, len(categories)),
		children: make(map[string][]string),
	}

	for _, c := range categories {
		if c.ID == "" {
			continue
		}
		if _, exists := f.nodes[c.ID]; exists {
			continue
		}
		f.nodes[c.ID] = c
	}

	for id, c := range f.nodes {
		if _, ok := f.nodes[c.ParentID]; ok && c.ParentID != id {
			f.children[c.ParentID] = append(f.children[c.ParentID], id)
		} else {
			f.roots = append(f.roots, id)
		}
	}

	f.sortIDs(f.roots)
	for parent := range f.children {
		f.sortIDs(f.children[parent])
	}
	return f
}

func (f *Forest) sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.nodes[ids[i]], f.nodes[ids[j]]
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
}

// Len returns the number of indexed categories.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Get returns the category with the given id.
func (f *Forest) Get(id string) (model.Category, bool) {
	if id == "" {
		return model.Category{}, false
	}
	c, ok := f.nodes[id]
	return c, ok
}

// Roots returns root categories in display order.
func (f *Forest) Roots() []model.Category {
	out := make([]model.Category, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.nodes[id])
	}
	return out
}

// Children returns the direct children of id in display order.
func (f *Forest) Children(id string) []model.Category {
	kids := f.children[id]
	out := make([]model.Category, 0, len(kids))
	for _, k := range kids {
		out = append(out, f.nodes[k])
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at a repeated node, so a malformed cycle cannot loop forever.
func (f *Forest) Ancestors(id string) []model.Category {
	var out []model.Category
	visited := map[string]bool{id: true}

	c, ok := f.nodes[id]
	for ok && c.ParentID != "" {
		if visited[c.ParentID] {
			break
		}
		parent, exists := f.nodes[c.ParentID]
		if !exists {
			break
		}
		visited[parent.ID] = true
		out = append(out, parent)
		c = parent
	}
	return out
}

// Depth returns the number of ancestors of id.
func (f *Forest) Depth(id string) int {
	return len(f.Ancestors(id))
}

// Path returns the names from the root down to id joined with " > ".
func (f *Forest) Path(id string) string {
	c, ok := f.nodes[id]
	if !ok {
		return ""
	}
	ancestors := f.Ancestors(id)
	parts := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		parts = append(parts, ancestors[i].Name)
	}
	return strings.Join(append(parts, c.Name), " > ")
}

// Descendants returns id and every category below it, breadth first.
func (f *Forest) Descendants(id string) []string {
	if _, ok := f.nodes[id]; !ok {
		return nil
	}
	out := []string{id}
	seen := map[string]bool{id: true}
	for i := 0; i < len(out); i++ {
		for _, child := range f.children[out[i]] {
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out
}

// Walk visits every category depth first in display order.
func (f *Forest) Walk(fn func(c model.Category, depth int)) {
	seen := make(map[string]bool, len(f.nodes))
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		if seen[id] {
			return
		}
		seen[id] = true
		fn(f.nodes[id], depth)
		for _, child := range f.children[id] {
			visit(child, depth+1)
		}
	}
	for _, root := range f.roots {
		visit(root, 0)
	}
}

// ValidateForest checks that categories form a well-formed forest: ids are
// present and unique, parents exist, and no parent chain loops. All problems
// found are joined into the returned error.
func ValidateForest(categories []model.Category) error {
	var errs []error
	byID := make(map[string]model.Category, len(categories))

	for i, c := range categories {
		if strings.TrimSpace(c.ID) == "" {
			errs = append(errs, fmt.Errorf("category at index %d (%q): %w", i, c.Name, ErrEmptyCategoryID))
			continue
		}
		if _, exists := byID[c.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateCategory, c.ID))
			continue
		}
		byID[c.ID] = c
	}

	for _, c := range categories {
		if c.ParentID == "" || c.ID == "" {
			continue
		}
		if _, ok := byID[c.ParentID]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownParent, c.ParentID, c.ID))
		}
	}

	reported := make(map[string]bool)
	for id := range byID {
		visited := map[string]bool{id: true}
		current := byID[id]
		for current.ParentID != "" {
			if visited[current.ParentID] {
				if current.ParentID == id && !reported[id] {
					errs = append(errs, fmt.Errorf("%w: %s", ErrCategoryCycle, cycleString(byID, id)))
					for member := range visited {
						reported[member] = true
					}
				}
				break
			}
			parent, ok := byID[current.ParentID]
			if !ok {
				break
			}
			visited[parent.ID] = true
			current = parent
		}
	}

	return errors.Join(errs...)
}

func cycleString(byID map[string]model.Category, start string) string {
	parts := []string{start}
	for id := byID[start].ParentID; id != start && id != ""; id = byID[id].ParentID {
		parts = append(parts, id)
	}
	return strings.Join(append(parts, start), " -> ")
}

// TypeMismatch describes a category whose type differs from its parent's.
type TypeMismatch struct {
	Category model.Category
	Parent   model.Category
}

// TypeMismatches reports categories whose own type differs from their
// parent's. Such trees are tolerated; each node's own type still wins.
func TypeMismatches(categories []model.Category) []TypeMismatch {
	f := NewForest(categories)
	var out []TypeMismatch
	f.Walk(func(c model.Category, _ int) {
		parent, ok := f.Get(c.ParentID)
		if ok && parent.Type != c.Type {
			out = append(out, TypeMismatch{Category: c, Parent: parent})
		}
	})
	return out
}
