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

type MemosRepo struct {
	MongoCollection *mongo.Collection
}

func GetMemosRepo(db *mongo.Database) *MemosRepo {
	return &MemosRepo{
		MongoCollection: db.Collection(MemosCollection),
	}
}

// CreateMemo inserts a new memo, stamping created_at and updated_at.
func (r *MemosRepo) CreateMemo(ctx context.Context, memo *model.Memo) (string, error) {
	timer := utils.TrackDBOperation("insert", MemosCollection)
	defer timer.ObserveDuration()

	if memo.UserID == "" {
		return "", errors.New("user ID is required")
	}
	if memo.ID == "" {
		memo.ID = utils.GenerateID()
	}

	now := time.Now()
	memo.CreatedAt = now
	memo.UpdatedAt = now

	ctx, cancel := opContext(ctx)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, memo); err != nil {
		utils.TrackError("database", "memo_creation_failed")
		return "", storeErr("create memo", err)
	}
	return memo.ID, nil
}

// GetMemo retrieves a single memo. A missing document returns (nil, nil).
func (r *MemosRepo) GetMemo(ctx context.Context, memoID, userID string) (*model.Memo, error) {
	timer := utils.TrackDBOperation("find", MemosCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var memo model.Memo
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"_id": memoID, "user_id": userID}).Decode(&memo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "memo_fetch_failed")
		return nil, storeErr("get memo", err)
	}
	return &memo, nil
}

// UpdateMemo applies a partial update and stamps updated_at.
func (r *MemosRepo) UpdateMemo(ctx context.Context, memoID, userID string, fields bson.M) error {
	timer := utils.TrackDBOperation("update", MemosCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	fields["updated_at"] = time.Now()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": memoID, "user_id": userID},
		bson.M{"$set": fields})
	if err != nil {
		utils.TrackError("database", "memo_update_failed")
		return storeErr("update memo", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMemo removes the memo document. Attached images are the caller's
// responsibility; their deletion must happen before this call.
func (r *MemosRepo) DeleteMemo(ctx context.Context, memoID, userID string) error {
	timer := utils.TrackDBOperation("delete", MemosCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.DeleteOne(ctx,
		bson.M{"_id": memoID, "user_id": userID})
	if err != nil {
		utils.TrackError("database", "memo_delete_failed")
		return storeErr("delete memo", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner fetches the owner's entire memo set unordered and sorts it
// client-side by updated_at descending.
func (r *MemosRepo) ListByOwner(ctx context.Context, userID string) ([]*model.Memo, error) {
	timer := utils.TrackDBOperation("find", MemosCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "memo_list_failed")
		return nil, storeErr("list memos", err)
	}
	defer cursor.Close(ctx)

	memos := make([]*model.Memo, 0)
	if err = cursor.All(ctx, &memos); err != nil {
		return nil, storeErr("decode memos", err)
	}

	sortByUpdatedAtDesc(memos, func(m *model.Memo) time.Time { return m.UpdatedAt })
	return memos, nil
}

// CountByOwner counts all memos for a user, archived included.
func (r *MemosRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", MemosCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, storeErr("count memos", err)
	}
	return int(count), nil
}

// Subscribe delivers the full, re-sorted memo list for userID on attach and
// after every remote mutation. The returned function tears the stream down.
func (r *MemosRepo) Subscribe(ctx context.Context, userID string, callback func([]*model.Memo)) (func(), error) {
	return subscribeOwner(ctx, r.MongoCollection, userID, func(ctx context.Context) error {
		memos, err := r.ListByOwner(ctx, userID)
		if err != nil {
			return err
		}
		callback(memos)
		return nil
	})
}
