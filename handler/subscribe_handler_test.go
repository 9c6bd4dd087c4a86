package handler

import (
	"context"
	"errors"
	"testing"

	"main/model"
)

// scriptedStream hands out the delivery callback so tests can push updates
// the way a change stream would.
type scriptedStream struct {
	owner    string
	deliver  func([]*model.Memo)
	detached int
	err      error
}

func (s *scriptedStream) subscribe(ctx context.Context, ownerID string, callback func([]*model.Memo)) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.owner = ownerID
	s.deliver = callback
	return func() { s.detached++ }, nil
}

type capturedDelivery struct {
	collection string
	data       interface{}
}

func TestOpenFeedForwardsDeliveries(t *testing.T) {
	stream := &scriptedStream{}
	var sent []capturedDelivery
	send := func(collection string, data interface{}) {
		sent = append(sent, capturedDelivery{collection, data})
	}

	feed, err := openFeed(context.Background(), "user-1", "memos", send, stream.subscribe)
	if err != nil {
		t.Fatalf("openFeed failed: %v", err)
	}
	if stream.owner != "user-1" {
		t.Errorf("subscription attached for %q, want user-1", stream.owner)
	}

	stream.deliver([]*model.Memo{{ID: "m1", UserID: "user-1"}})
	stream.deliver([]*model.Memo{{ID: "m1"}, {ID: "m2"}})

	if len(sent) != 2 {
		t.Fatalf("expected 2 websocket deliveries, got %d", len(sent))
	}
	if sent[0].collection != "memos" {
		t.Errorf("delivery tagged %q, want memos", sent[0].collection)
	}
	if items, ok := sent[1].data.([]*model.Memo); !ok || len(items) != 2 {
		t.Errorf("second delivery must carry the full two-item list, got %#v", sent[1].data)
	}

	// The feed keeps the last delivered list alongside the socket.
	data, loading, errMsg := feed.Snapshot()
	if loading || errMsg != "" {
		t.Errorf("feed must be settled, got loading=%v err=%q", loading, errMsg)
	}
	if len(data) != 2 {
		t.Errorf("feed snapshot has %d items, want 2", len(data))
	}
}

func TestOpenFeedPropagatesSubscribeFailure(t *testing.T) {
	stream := &scriptedStream{err: errors.New("stream unavailable")}
	send := func(string, interface{}) {
		t.Error("nothing must be delivered when the subscription fails")
	}

	if _, err := openFeed(context.Background(), "user-1", "memos", send, stream.subscribe); err == nil {
		t.Fatal("expected an error from a failed subscription")
	}
}

func TestOpenFeedCloseDetaches(t *testing.T) {
	stream := &scriptedStream{}
	feed, err := openFeed(context.Background(), "user-1", "memos", func(string, interface{}) {}, stream.subscribe)
	if err != nil {
		t.Fatalf("openFeed failed: %v", err)
	}

	feed.Close()
	if stream.detached != 1 {
		t.Errorf("expected the upstream subscription to be torn down once, got %d", stream.detached)
	}
}
