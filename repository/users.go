package repository

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		MongoCollection: db.Collection(UsersCollection),
	}
}

// UpsertProfile writes the identity fields returned by the sign-in provider,
// creating the profile on first login. Push tokens are left untouched.
func (r *UserRepo) UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	timer := utils.TrackDBOperation("upsert", UsersCollection)
	defer timer.ObserveDuration()

	if profile.GoogleID == "" {
		return nil, errors.New("google ID is required")
	}
	if profile.UserID == "" {
		profile.UserID = utils.GenerateID()
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":        profile.Email,
			"display_name": profile.DisplayName,
			"photo_url":    profile.PhotoURL,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"_id":        profile.UserID,
			"google_id":  profile.GoogleID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.UserProfile
	err := r.MongoCollection.FindOneAndUpdate(ctx,
		bson.M{"google_id": profile.GoogleID}, update, opts).Decode(&stored)
	if err != nil {
		utils.TrackError("database", "profile_upsert_failed")
		return nil, storeErr("upsert profile", err)
	}
	return &stored, nil
}

// GetProfile returns (nil, nil) for an unknown user.
func (r *UserRepo) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var profile model.UserProfile
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "profile_fetch_failed")
		return nil, storeErr("get profile", err)
	}
	return &profile, nil
}

// AppendFCMToken pushes a device token onto the profile. The append is not
// deduplicated; the push dispatcher tolerates duplicate tokens and prunes
// the ones the delivery service reports as invalid.
func (r *UserRepo) AppendFCMToken(ctx context.Context, userID, token string) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	if token == "" {
		return errors.New("token is required")
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"fcm_tokens": token}})
	if err != nil {
		utils.TrackError("database", "token_append_failed")
		return storeErr("append fcm token", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveFCMTokens drops the given tokens from the profile, duplicates
// included. Used when the push service reports them permanently invalid.
func (r *UserRepo) RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error {
	timer := utils.TrackDBOperation("update", UsersCollection)
	defer timer.ObserveDuration()

	if len(tokens) == 0 {
		return nil
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"fcm_tokens": bson.M{"$in": tokens}}})
	if err != nil {
		utils.TrackError("database", "token_prune_failed")
		return storeErr("remove fcm tokens", err)
	}
	return nil
}

// FindByEmail resolves a sharing target to a profile. Returns (nil, nil)
// when no account exists for the address.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	timer := utils.TrackDBOperation("find", UsersCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(ctx)
	defer cancel()

	var profile model.UserProfile
	err := r.MongoCollection.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, storeErr("find profile by email", err)
	}
	return &profile, nil
}
