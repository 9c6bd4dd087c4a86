package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"main/model"
	"main/services"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection

	// Cache is optional; a nil cache degrades to store-only lookups.
	Cache *services.SessionCache
}

func GetSessionRepo(db *mongo.Database, cache *services.SessionCache) *SessionRepo {
	return &SessionRepo{
		MongoCollection: db.Collection(SessionsCollection),
		Cache:           cache,
	}
}

func (r *SessionRepo) CreateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("insert", SessionsCollection)
	defer timer.ObserveDuration()

	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		return fmt.Errorf("invalid session data: missing required fields")
	}

	ctx, cancel := opContext(nil)
	defer cancel()

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return storeErr("create session", err)
	}

	if r.Cache != nil {
		if err := r.Cache.SetSession(session); err != nil {
			utils.TrackError("cache", "session_cache_set_failed")
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}

	r.refreshActiveSessionsGauge(ctx)
	return nil
}

// refreshActiveSessionsGauge recounts the active sessions across all users.
// Best-effort: a failed count leaves the gauge at its last value.
func (r *SessionRepo) refreshActiveSessionsGauge(ctx context.Context) {
	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err == nil {
		utils.UpdateActiveSessions(float64(count))
	}
}

func (r *SessionRepo) GetSession(sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", SessionsCollection)
	defer timer.ObserveDuration()

	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	if r.Cache != nil {
		if session, err := r.Cache.GetSession(sessionID); err == nil && session != nil {
			utils.TrackCacheOperation("session", true)
			return session, nil
		}
		utils.TrackCacheOperation("session", false)
	}

	ctx, cancel := opContext(nil)
	defer cancel()

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, storeErr("get session", err)
	}

	if r.Cache != nil {
		if err := r.Cache.SetSession(&session); err != nil {
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}
	return &session, nil
}

func (r *SessionRepo) UpdateSession(session *model.Session) error {
	timer := utils.TrackDBOperation("update", SessionsCollection)
	defer timer.ObserveDuration()

	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	ctx, cancel := opContext(nil)
	defer cancel()

	result, err := r.MongoCollection.ReplaceOne(ctx,
		bson.M{"session_id": session.SessionID}, session)
	if err != nil {
		utils.TrackError("database", "session_update_failed")
		return storeErr("update session", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	if r.Cache != nil {
		if err := r.Cache.SetSession(session); err != nil {
			log.Printf("Warning: Failed to cache session: %v", err)
		}
	}
	return nil
}

// EndSession deactivates a session without deleting its audit trail.
func (r *SessionRepo) EndSession(sessionID string) error {
	timer := utils.TrackDBOperation("update", SessionsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(nil)
	defer cancel()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		utils.TrackError("database", "session_end_failed")
		return storeErr("end session", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	if r.Cache != nil {
		if err := r.Cache.DeleteSession(sessionID); err != nil {
			log.Printf("Warning: Failed to evict session from cache: %v", err)
		}
	}

	r.refreshActiveSessionsGauge(ctx)
	return nil
}

func (r *SessionRepo) GetUserActiveSessions(userID string) ([]*model.Session, error) {
	timer := utils.TrackDBOperation("find", SessionsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(nil)
	defer cancel()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return nil, storeErr("list active sessions", err)
	}
	defer cursor.Close(ctx)

	sessions := make([]*model.Session, 0)
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, storeErr("decode sessions", err)
	}
	return sessions, nil
}

func (r *SessionRepo) CountActiveSessions(userID string) (int, error) {
	timer := utils.TrackDBOperation("count", SessionsCollection)
	defer timer.ObserveDuration()

	ctx, cancel := opContext(nil)
	defer cancel()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return 0, storeErr("count active sessions", err)
	}
	return int(count), nil
}

// EndLeastActiveSession frees a slot when the per-user session cap is hit.
func (r *SessionRepo) EndLeastActiveSession(userID string) error {
	ctx, cancel := opContext(nil)
	defer cancel()

	var session model.Session
	opts := options.FindOne().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"user_id": userID, "is_active": true}, opts).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		return storeErr("find least active session", err)
	}
	return r.EndSession(session.SessionID)
}

// EndAllUserSessions deactivates every session for the user (sign out of
// all devices).
func (r *SessionRepo) EndAllUserSessions(userID string) error {
	timer := utils.TrackDBOperation("update", SessionsCollection)
	defer timer.ObserveDuration()

	// Snapshot the sessions first so each cache entry can be evicted. A
	// cached copy left behind would keep answering refresh requests with
	// is_active=true until its TTL runs out.
	sessions, err := r.GetUserActiveSessions(userID)
	if err != nil {
		return err
	}

	ctx, cancel := opContext(nil)
	defer cancel()

	_, err = r.MongoCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		utils.TrackError("database", "session_end_all_failed")
		return storeErr("end all sessions", err)
	}

	if r.Cache != nil {
		for _, session := range sessions {
			if err := r.Cache.DeleteSession(session.SessionID); err != nil {
				log.Printf("Warning: Failed to evict session %s from cache: %v",
					session.SessionID, err)
			}
		}
	}

	r.refreshActiveSessionsGauge(ctx)
	return nil
}
