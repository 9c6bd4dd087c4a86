package usecase

import (
	"context"
	"testing"

	"main/model"
	"main/services"
)

type fakeProfileStore struct {
	profile *model.UserProfile
	removed []string
	added   []string
}

func (s *fakeProfileStore) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.profile, nil
}

func (s *fakeProfileStore) AppendFCMToken(ctx context.Context, userID, token string) error {
	s.added = append(s.added, token)
	return nil
}

func (s *fakeProfileStore) RemoveFCMTokens(ctx context.Context, userID string, tokens []string) error {
	s.removed = append(s.removed, tokens...)
	return nil
}

type fakePusher struct {
	sent    []services.PushMessage
	tokens  []string
	result  *services.PushResult
	failure error
}

func (p *fakePusher) Send(ctx context.Context, tokens []string, msg services.PushMessage) (*services.PushResult, error) {
	p.sent = append(p.sent, msg)
	p.tokens = tokens
	if p.failure != nil {
		return nil, p.failure
	}
	return p.result, nil
}

func TestDispatchSendsToAllDevices(t *testing.T) {
	users := &fakeProfileStore{profile: &model.UserProfile{
		UserID:    "friend-1",
		FCMTokens: []string{"tok-1", "tok-2"},
	}}
	pusher := &fakePusher{result: &services.PushResult{Delivered: 2}}
	dispatcher := &PushDispatcher{UserRepo: users, Pusher: pusher}

	dispatcher.Dispatch(context.Background(), &model.Notification{
		Type:       model.NotificationMemoShared,
		Title:      "메모가 공유되었습니다",
		Body:       "Hello Worl",
		ReceiverID: "friend-1",
		SenderName: "Sender",
		MemoID:     "memo-1",
	})

	if len(pusher.sent) != 1 {
		t.Fatalf("expected one multicast, got %d", len(pusher.sent))
	}
	if len(pusher.tokens) != 2 {
		t.Errorf("expected both tokens in the multicast, got %v", pusher.tokens)
	}
	msg := pusher.sent[0]
	if msg.Title != "메모가 공유되었습니다" || msg.Body != "Hello Worl" {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Data["memo_id"] != "memo-1" {
		t.Errorf("the memo id must ride along in the data payload, got %v", msg.Data)
	}
}

func TestDispatchPrunesInvalidTokens(t *testing.T) {
	users := &fakeProfileStore{profile: &model.UserProfile{
		UserID:    "friend-1",
		FCMTokens: []string{"tok-1", "tok-dead"},
	}}
	pusher := &fakePusher{result: &services.PushResult{
		Delivered:     1,
		Failed:        1,
		InvalidTokens: []string{"tok-dead"},
	}}
	dispatcher := &PushDispatcher{UserRepo: users, Pusher: pusher}

	dispatcher.Dispatch(context.Background(), &model.Notification{ReceiverID: "friend-1"})

	if len(users.removed) != 1 || users.removed[0] != "tok-dead" {
		t.Errorf("expected tok-dead pruned, got %v", users.removed)
	}
}

func TestDispatchSkipsTokenlessReceiver(t *testing.T) {
	users := &fakeProfileStore{profile: &model.UserProfile{UserID: "friend-1"}}
	pusher := &fakePusher{result: &services.PushResult{}}
	dispatcher := &PushDispatcher{UserRepo: users, Pusher: pusher}

	dispatcher.Dispatch(context.Background(), &model.Notification{ReceiverID: "friend-1"})

	if len(pusher.sent) != 0 {
		t.Error("no push should go out when the receiver has no registered devices")
	}
}
