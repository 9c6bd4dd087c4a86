package repository

import (
	"context"
	"sort"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoriesRepo struct {
	MongoCollection *mongo.Collection
}

func GetCategoriesRepo(db *mongo.Database) *CategoriesRepo {
	return &CategoriesRepo{
		MongoCollection: db.Collection(CategoriesCollection),
	}
}

// ListByOwner returns the user's five category slots ordered by slot index,
// creating the default set on first read. The reserved name is reported
// inactive regardless of its stored flag.
func (r *CategoriesRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Category, error) {
	timer := utils.TrackDBOperation("find", CategoriesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "category_list_failed")
		return nil, storeErr("list categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]*model.Category, 0, model.CategorySlots)
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, storeErr("decode categories", err)
	}

	if len(categories) == 0 {
		categories, err = r.createDefaults(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Order < categories[j].Order
	})

	for _, category := range categories {
		if category.Name == model.ReservedCategoryName {
			category.IsActive = false
		}
	}
	return categories, nil
}

func (r *CategoriesRepo) createDefaults(ctx context.Context, userID string) ([]*model.Category, error) {
	defaults := model.DefaultCategories(userID)

	docs := make([]interface{}, 0, len(defaults))
	for _, category := range defaults {
		category.ID = utils.GenerateID()
		docs = append(docs, category)
	}

	if _, err := r.MongoCollection.InsertMany(ctx, docs); err != nil {
		utils.TrackError("database", "category_defaults_failed")
		return nil, storeErr("create default categories", err)
	}
	return defaults, nil
}

// UpdateCategory renames a slot or toggles its active flag.
func (r *CategoriesRepo) UpdateCategory(ctx context.Context, categoryID, userID string, fields bson.M) error {
	timer := utils.TrackDBOperation("update", CategoriesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	fields["updated_at"] = time.Now()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": categoryID, "user_id": userID},
		bson.M{"$set": fields})
	if err != nil {
		utils.TrackError("database", "category_update_failed")
		return storeErr("update category", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoriesRepo) Subscribe(ctx context.Context, userID string, callback func([]*model.Category)) (func(), error) {
	return subscribeOwner(ctx, r.MongoCollection, userID, func(ctx context.Context) error {
		categories, err := r.ListByOwner(ctx, userID)
		if err != nil {
			return err
		}
		callback(categories)
		return nil
	})
}
