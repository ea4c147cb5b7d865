package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-dashboard/internal/ledger"
	"github.com/Veraticus/budget-dashboard/internal/model"
)

// DeleteResult reports the effect of a cascading category delete.
type DeleteResult struct {
	Removed []string // ids of the category and all its descendants
	Cleared int      // transactions whose category was cleared
}

// Categories returns all categories in insertion order.
func (s *MemoryStorage) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	slog.Debug("retrieved categories", "count", len(s.categories))
	return append([]model.Category(nil), s.categories...), nil
}

// LoadCategories replaces the category set after validating it as a forest.
func (s *MemoryStorage) LoadCategories(ctx context.Context, cats []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range cats {
		if err := validateCategory(&cats[i]); err != nil {
			return fmt.Errorf("category %q: %w", cats[i].ID, err)
		}
	}
	if err := ledger.ValidateForest(cats); err != nil {
		return fmt.Errorf("invalid category tree: %w", err)
	}
	for _, m := range ledger.TypeMismatches(cats) {
		slog.Warn("category type differs from parent",
			"category", m.Category.ID, "type", m.Category.Type,
			"parent", m.Parent.ID, "parent_type", m.Parent.Type)
	}

	s.mu.Lock()
	s.categories = append([]model.Category(nil), cats...)
	s.mu.Unlock()

	slog.Debug("loaded categories", "count", len(cats))
	return nil
}

// GetCategory returns the category with the given id.
func (s *MemoryStorage) GetCategory(ctx context.Context, id string) (model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.categoryIndex(id)
	if i < 0 {
		return model.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return s.categories[i], nil
}

// FindCategoryByName returns the first category whose name matches,
// ignoring case and surrounding whitespace.
func (s *MemoryStorage) FindCategoryByName(ctx context.Context, name string) (model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.Category{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.findByName(name); ok {
		return c, nil
	}
	return model.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
}

// AddCategory inserts a category. An empty id is replaced by the next free
// "cat-N" id. A parent, when given, must exist and have the same type.
func (s *MemoryStorage) AddCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, err
	}
	if err := validateCategory(&cat); err != nil {
		return model.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCategory(cat)
}

func (s *MemoryStorage) addCategory(cat model.Category) (model.Category, error) {
	if cat.ID == "" {
		cat.ID = s.nextFreeCategoryID()
	} else if s.categoryIndex(cat.ID) >= 0 {
		return model.Category{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.ID)
	}
	if err := s.checkParent(cat); err != nil {
		return model.Category{}, err
	}

	s.categories = append(s.categories, cat)
	slog.Info("created category", "id", cat.ID, "name", cat.Name, "type", cat.Type)
	return cat, nil
}

// UpdateCategory replaces the category with the same id. The new parent may
// not be the category itself or one of its descendants.
func (s *MemoryStorage) UpdateCategory(ctx context.Context, cat model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(&cat); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(cat.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, cat.ID)
	}
	if cat.ParentID != "" {
		for _, id := range ledger.NewForest(s.categories).Descendants(cat.ID) {
			if id == cat.ParentID {
				return fmt.Errorf("%w: %s under %s", ErrCategoryCycle, cat.ID, cat.ParentID)
			}
		}
	}
	if err := s.checkParent(cat); err != nil {
		return err
	}

	s.categories[i] = cat
	return nil
}

// DeleteCategory removes a category together with all of its descendants
// and clears every transaction reference to a removed category.
func (s *MemoryStorage) DeleteCategory(ctx context.Context, id string) (DeleteResult, error) {
	if err := validateContext(ctx); err != nil {
		return DeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := ledger.NewForest(s.categories).Descendants(id)
	if len(removed) == 0 {
		return DeleteResult{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	gone := make(map[string]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}

	kept := s.categories[:0]
	for _, c := range s.categories {
		if !gone[c.ID] {
			kept = append(kept, c)
		}
	}
	s.categories = kept

	result := DeleteResult{Removed: removed}
	for i := range s.transactions {
		if gone[s.transactions[i].CategoryID] {
			s.transactions[i].CategoryID = ""
			result.Cleared++
		}
	}

	slog.Info("deleted category", "id", id, "removed", len(removed), "cleared_transactions", result.Cleared)
	return result, nil
}

// EnsureCategory returns the category named name, creating a root category
// of the given type when none exists. The boolean reports creation.
func (s *MemoryStorage) EnsureCategory(ctx context.Context, name string, typ model.CategoryType) (model.Category, bool, error) {
	if err := validateContext(ctx); err != nil {
		return model.Category{}, false, err
	}
	if err := validateString(name, "name"); err != nil {
		return model.Category{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findByName(name); ok {
		return existing, false, nil
	}

	cat := model.Category{Name: strings.TrimSpace(name), Type: typ}
	if err := validateCategory(&cat); err != nil {
		return model.Category{}, false, err
	}
	created, err := s.addCategory(cat)
	if err != nil {
		return model.Category{}, false, err
	}
	return created, true, nil
}

func (s *MemoryStorage) checkParent(cat model.Category) error {
	if cat.ParentID == "" {
		return nil
	}
	if cat.ParentID == cat.ID {
		return fmt.Errorf("%w: %s", ErrCategoryCycle, cat.ID)
	}
	p := s.categoryIndex(cat.ParentID)
	if p < 0 {
		return fmt.Errorf("%w: parent %s", ErrCategoryNotFound, cat.ParentID)
	}
	if s.categories[p].Type != cat.Type {
		return fmt.Errorf("%w: %s is %s, %s is %s", ErrParentTypeMismatch,
			cat.ID, cat.Type, cat.ParentID, s.categories[p].Type)
	}
	return nil
}

func (s *MemoryStorage) nextFreeCategoryID() string {
	for {
		id := fmt.Sprintf("cat-%d", s.nextCategoryID)
		s.nextCategoryID++
		if s.categoryIndex(id) < 0 {
			return id
		}
	}
}

func (s *MemoryStorage) categoryIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStorage) findByName(name string) (model.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range s.categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}
	return model.Category{}, false
}
