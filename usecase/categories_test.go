package usecase

import (
	"context"
	"testing"

	"main/dto"
	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeCategoryStore struct {
	categories []*model.Category
	updates    map[string]bson.M
}

func (s *fakeCategoryStore) ListByOwner(ctx context.Context, userID string) ([]*model.Category, error) {
	if s.categories == nil {
		s.categories = model.DefaultCategories(userID)
	}
	return s.categories, nil
}

func (s *fakeCategoryStore) UpdateCategory(ctx context.Context, categoryID, userID string, fields bson.M) error {
	if s.updates == nil {
		s.updates = map[string]bson.M{}
	}
	s.updates[categoryID] = fields
	return nil
}

func boolPtr(b bool) *bool { return &b }

func TestDefaultCategorySlots(t *testing.T) {
	svc := &CategoriesService{CategoryRepo: &fakeCategoryStore{}}

	categories, err := svc.GetUserCategories(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUserCategories failed: %v", err)
	}

	if len(categories) != model.CategorySlots {
		t.Fatalf("expected %d slots, got %d", model.CategorySlots, len(categories))
	}
	for i, category := range categories {
		if category.Order != i {
			t.Errorf("slot %d has order %d", i, category.Order)
		}
	}
	if categories[0].Name != model.ReservedCategoryName {
		t.Errorf("slot 0 must be the reserved category, got %q", categories[0].Name)
	}
	if categories[0].IsActive {
		t.Error("the reserved category must start inactive")
	}
}

func TestUpdateCategoryForcesReservedInactive(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := &CategoriesService{CategoryRepo: store}

	err := svc.UpdateCategory(context.Background(), "cat-1", "user-1", dto.UpdateCategoryRequest{
		Name:     model.ReservedCategoryName,
		IsActive: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}

	fields := store.updates["cat-1"]
	if active, ok := fields["is_active"].(bool); !ok || active {
		t.Error("the reserved name must never be stored active")
	}
}

func TestUpdateCategoryNilToggleLeavesActivationAlone(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := &CategoriesService{CategoryRepo: store}

	err := svc.UpdateCategory(context.Background(), "cat-2", "user-1", dto.UpdateCategoryRequest{
		Name: "일상",
	})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}

	fields := store.updates["cat-2"]
	if _, ok := fields["is_active"]; ok {
		t.Error("a rename without a toggle must not write is_active")
	}
	if fields["name"] != "일상" {
		t.Errorf("expected the name to be updated, got %v", fields["name"])
	}
}

func TestUpdateCategoryRejectsLongName(t *testing.T) {
	svc := &CategoriesService{CategoryRepo: &fakeCategoryStore{}}

	err := svc.UpdateCategory(context.Background(), "cat-1", "user-1", dto.UpdateCategoryRequest{
		Name: "다섯글자이름",
	})
	if err == nil {
		t.Error("expected error for a name longer than the rune cap")
	}
}

func TestValidateCategoryName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"일상", true},
		{"업무용", true},
		{"네글자임", true},
		{"", false},
		{"다섯글자이름", false},
		{"abcd", true},
		{"abcde", false},
	}

	for _, tc := range cases {
		if got := utils.ValidateCategoryName(tc.name); got != tc.valid {
			t.Errorf("ValidateCategoryName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}
