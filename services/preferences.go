package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore keeps small per-user UI preferences (font size, the
// last-shown date of the promo modal, the one-time redirect flag). These are
// not part of the durable data model and have no TTL.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func prefsKey(userID string) string {
	return fmt.Sprintf("prefs:%s", userID)
}

// Get returns the stored preference map, empty when none exist yet.
func (ps *PreferenceStore) Get(ctx context.Context, userID string) (map[string]string, error) {
	data, err := ps.client.Get(ctx, prefsKey(userID)).Bytes()
	if err == redis.Nil {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := map[string]string{}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return prefs, nil
}

// Set merges the given keys into the stored preference map.
func (ps *PreferenceStore) Set(ctx context.Context, userID string, updates map[string]string) error {
	prefs, err := ps.Get(ctx, userID)
	if err != nil {
		return err
	}
	for k, v := range updates {
		prefs[k] = v
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := ps.client.Set(ctx, prefsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
