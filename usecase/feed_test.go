package usecase

import (
	"context"
	"errors"
	"testing"
)

// scriptedSubscribe is a SubscribeFunc that hands the callback back to the
// test so deliveries can be driven manually.
func scriptedSubscribe(initial map[string][]string) (SubscribeFunc[string], *subscribeState) {
	state := &subscribeState{}
	fn := func(ctx context.Context, ownerID string, callback func([]string)) (func(), error) {
		state.owner = ownerID
		state.deliver = callback
		callback(initial[ownerID])
		return func() { state.unsubscribed++ }, nil
	}
	return fn, state
}

type subscribeState struct {
	owner        string
	deliver      func([]string)
	unsubscribed int
}

func TestFeedStateMachine(t *testing.T) {
	subscribe, state := scriptedSubscribe(map[string][]string{"user-1": {"a", "b"}})
	feed := NewFeed(subscribe)

	data, loading, errMsg := feed.Snapshot()
	if data != nil || loading || errMsg != "" {
		t.Errorf("fresh feed must be idle and empty, got data=%v loading=%v err=%q", data, loading, errMsg)
	}

	feed.SetOwner(context.Background(), "user-1")

	data, loading, _ = feed.Snapshot()
	if loading {
		t.Error("feed should be ready after the initial delivery")
	}
	if len(data) != 2 {
		t.Fatalf("expected the initial 2 items, got %d", len(data))
	}

	// A remote mutation delivers a fresh full list.
	state.deliver([]string{"a", "b", "c"})
	data, _, _ = feed.Snapshot()
	if len(data) != 3 {
		t.Errorf("expected 3 items after the delivery, got %d", len(data))
	}
}

func TestFeedEmptyOwnerClearsData(t *testing.T) {
	subscribe, state := scriptedSubscribe(map[string][]string{"user-1": {"a"}})
	feed := NewFeed(subscribe)

	feed.SetOwner(context.Background(), "user-1")
	if data, _, _ := feed.Snapshot(); len(data) != 1 {
		t.Fatalf("expected 1 item, got %d", len(data))
	}

	// Sign-out: the owner goes empty and every open view must clear.
	feed.SetOwner(context.Background(), "")

	data, loading, errMsg := feed.Snapshot()
	if len(data) != 0 {
		t.Errorf("sign-out must clear the data, got %d items", len(data))
	}
	if loading || errMsg != "" {
		t.Errorf("feed must be idle after sign-out, got loading=%v err=%q", loading, errMsg)
	}
	if state.unsubscribed != 1 {
		t.Errorf("previous subscription must be detached, got %d detaches", state.unsubscribed)
	}
}

func TestFeedOwnerSwitchDetachesOldSubscription(t *testing.T) {
	subscribe, state := scriptedSubscribe(map[string][]string{
		"user-1": {"a", "b"},
		"user-2": {"z"},
	})
	feed := NewFeed(subscribe)

	feed.SetOwner(context.Background(), "user-1")
	feed.SetOwner(context.Background(), "user-2")

	if state.unsubscribed != 1 {
		t.Errorf("switching owners must detach the old subscription, got %d", state.unsubscribed)
	}
	if state.owner != "user-2" {
		t.Errorf("expected the new subscription to target user-2, got %q", state.owner)
	}

	data, _, _ := feed.Snapshot()
	if len(data) != 1 || data[0] != "z" {
		t.Errorf("feed must show only the new owner's data, got %v", data)
	}
}

func TestFeedSubscribeFailure(t *testing.T) {
	failing := SubscribeFunc[string](func(ctx context.Context, ownerID string, callback func([]string)) (func(), error) {
		return nil, errors.New("change stream unavailable")
	})
	feed := NewFeed(failing)

	feed.SetOwner(context.Background(), "user-1")

	_, loading, errMsg := feed.Snapshot()
	if loading {
		t.Error("a failed subscription must not stay loading")
	}
	if errMsg == "" {
		t.Error("the subscription error must be recorded")
	}
}

func TestFeedCloseKeepsLastData(t *testing.T) {
	subscribe, state := scriptedSubscribe(map[string][]string{"user-1": {"a"}})
	feed := NewFeed(subscribe)

	feed.SetOwner(context.Background(), "user-1")
	feed.Close()

	if state.unsubscribed != 1 {
		t.Errorf("Close must detach the subscription, got %d", state.unsubscribed)
	}
	if data, _, _ := feed.Snapshot(); len(data) != 1 {
		t.Error("Close must not clear the last-known data")
	}
}
