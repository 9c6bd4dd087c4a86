package usecase

import (
	"context"
	"errors"
	"strings"

	"main/dto"
	"main/model"
	"main/services"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
)

type CategoryStore interface {
	ListByOwner(ctx context.Context, userID string) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, categoryID, userID string, fields bson.M) error
}

type CategoriesService struct {
	CategoryRepo CategoryStore

	// Cache is optional; nil disables the list cache.
	Cache *services.ListCache
}

// GetUserCategories returns the user's five ordered slots, creating the
// defaults on first read.
func (svc *CategoriesService) GetUserCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	if svc.Cache != nil {
		if categories, hit := svc.Cache.GetCategories(ctx, userID); hit {
			return categories, nil
		}
	}

	categories, err := svc.CategoryRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if svc.Cache != nil {
		svc.Cache.SetCategories(ctx, userID, categories)
	}
	return categories, nil
}

// UpdateCategory renames a slot or toggles its active flag. The reserved
// name cannot be activated and cannot be assigned to another slot.
func (svc *CategoriesService) UpdateCategory(ctx context.Context, categoryID, userID string, req dto.UpdateCategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if !utils.ValidateCategoryName(name) {
		return errors.New("category name must be 1-4 characters")
	}

	fields := bson.M{"name": name}
	if req.IsActive != nil {
		active := *req.IsActive
		if name == model.ReservedCategoryName {
			active = false
		}
		fields["is_active"] = active
	}

	if err := svc.CategoryRepo.UpdateCategory(ctx, categoryID, userID, fields); err != nil {
		return err
	}

	if svc.Cache != nil {
		svc.Cache.InvalidateCategories(ctx, userID)
	}
	return nil
}
