package repository

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TemplatesRepo struct {
	MongoCollection *mongo.Collection
}

func GetTemplatesRepo(db *mongo.Database) *TemplatesRepo {
	return &TemplatesRepo{
		MongoCollection: db.Collection(TemplatesCollection),
	}
}

func (r *TemplatesRepo) CreateTemplate(ctx context.Context, template *model.Template) (string, error) {
	timer := utils.TrackDBOperation("insert", TemplatesCollection)
	defer timer.ObserveDuration()

	if template.UserID == "" {
		return "", errors.New("user ID is required")
	}
	if template.ID == "" {
		template.ID = utils.GenerateID()
	}

	now := time.Now()
	template.CreatedAt = now
	template.UpdatedAt = now

	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, template); err != nil {
		utils.TrackError("database", "template_creation_failed")
		return "", storeErr("create template", err)
	}
	return template.ID, nil
}

func (r *TemplatesRepo) GetTemplate(ctx context.Context, templateID, userID string) (*model.Template, error) {
	timer := utils.TrackDBOperation("find", TemplatesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var template model.Template
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"_id": templateID, "user_id": userID}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, storeErr("get template", err)
	}
	return &template, nil
}

func (r *TemplatesRepo) UpdateTemplate(ctx context.Context, templateID, userID string, fields bson.M) error {
	timer := utils.TrackDBOperation("update", TemplatesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	fields["updated_at"] = time.Now()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": templateID, "user_id": userID},
		bson.M{"$set": fields})
	if err != nil {
		utils.TrackError("database", "template_update_failed")
		return storeErr("update template", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage bumps usage_count without touching updated_at, so quick
// inserts do not reorder the template list.
func (r *TemplatesRepo) IncrementUsage(ctx context.Context, templateID, userID string) error {
	timer := utils.TrackDBOperation("update", TemplatesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": templateID, "user_id": userID},
		bson.M{"$inc": bson.M{"usage_count": 1}})
	if err != nil {
		return storeErr("increment template usage", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplatesRepo) DeleteTemplate(ctx context.Context, templateID, userID string) error {
	timer := utils.TrackDBOperation("delete", TemplatesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx,
		bson.M{"_id": templateID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "template_delete_failed")
		return storeErr("delete template", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TemplatesRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Template, error) {
	timer := utils.TrackDBOperation("find", TemplatesCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "template_list_failed")
		return nil, storeErr("list templates", err)
	}
	defer cursor.Close(ctx)

	templates := make([]*model.Template, 0)
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, storeErr("decode templates", err)
	}

	sortByUpdatedAtDesc(templates, func(t *model.Template) time.Time { return t.UpdatedAt })
	return templates, nil
}

func (r *TemplatesRepo) Subscribe(ctx context.Context, userID string, callback func([]*model.Template)) (func(), error) {
	return subscribeOwner(ctx, r.MongoCollection, userID, func(ctx context.Context) error {
		templates, err := r.ListByOwner(ctx, userID)
		if err != nil {
			return err
		}
		callback(templates)
		return nil
	})
}
