package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/dto"
	"main/model"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeMemoStore struct {
	memos   map[string]*model.Memo
	nextID  int
	deleted []string
	updates map[string]bson.M
}

func newFakeMemoStore() *fakeMemoStore {
	return &fakeMemoStore{memos: map[string]*model.Memo{}, updates: map[string]bson.M{}}
}

func (s *fakeMemoStore) CreateMemo(ctx context.Context, memo *model.Memo) (string, error) {
	s.nextID++
	memo.ID = string(rune('a' + s.nextID))
	now := time.Now()
	memo.CreatedAt = now
	memo.UpdatedAt = now
	s.memos[memo.ID] = memo
	return memo.ID, nil
}

func (s *fakeMemoStore) GetMemo(ctx context.Context, memoID, userID string) (*model.Memo, error) {
	memo, ok := s.memos[memoID]
	if !ok || memo.UserID != userID {
		return nil, nil
	}
	return memo, nil
}

func (s *fakeMemoStore) UpdateMemo(ctx context.Context, memoID, userID string, fields bson.M) error {
	if _, ok := s.memos[memoID]; !ok {
		return errors.New("not found")
	}
	s.updates[memoID] = fields
	s.memos[memoID].UpdatedAt = time.Now()
	return nil
}

func (s *fakeMemoStore) DeleteMemo(ctx context.Context, memoID, userID string) error {
	delete(s.memos, memoID)
	s.deleted = append(s.deleted, memoID)
	return nil
}

func (s *fakeMemoStore) ListByOwner(ctx context.Context, userID string) ([]*model.Memo, error) {
	var out []*model.Memo
	for _, memo := range s.memos {
		if memo.UserID == userID {
			out = append(out, memo)
		}
	}
	return out, nil
}

func (s *fakeMemoStore) CountByOwner(ctx context.Context, userID string) (int, error) {
	memos, _ := s.ListByOwner(ctx, userID)
	return len(memos), nil
}

type fakeDeleter struct {
	calls  []string
	failOn string
}

func (d *fakeDeleter) DeleteByURL(ctx context.Context, ownerID, url string) error {
	d.calls = append(d.calls, url)
	if url == d.failOn {
		return errors.New("blob missing")
	}
	return nil
}

type fakeNotifier struct {
	created []*model.Notification
	fail    bool
}

func (n *fakeNotifier) CreateNotification(ctx context.Context, notification *model.Notification) (string, error) {
	if n.fail {
		return "", errors.New("insert failed")
	}
	n.created = append(n.created, notification)
	return "n1", nil
}

func newMemosService(store *fakeMemoStore, deleter *fakeDeleter, notifier *fakeNotifier) *MemosService {
	return &MemosService{MemoRepo: store, Attachments: deleter, Notifications: notifier}
}

func TestCreateMemoDerivesTitle(t *testing.T) {
	store := newFakeMemoStore()
	svc := newMemosService(store, &fakeDeleter{}, &fakeNotifier{})

	memo, err := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{
		Content: "Hello World memo body",
	})
	if err != nil {
		t.Fatalf("CreateMemo failed: %v", err)
	}

	if memo.Title != "Hello Worl" {
		t.Errorf("expected title %q, got %q", "Hello Worl", memo.Title)
	}
	if memo.Category != model.CategoryTemporary {
		t.Errorf("expected default category %q, got %q", model.CategoryTemporary, memo.Category)
	}
	if memo.UpdatedAt.Before(memo.CreatedAt) {
		t.Error("updated_at must not precede created_at")
	}
}

func TestCreateMemoShortContentTitle(t *testing.T) {
	store := newFakeMemoStore()
	svc := newMemosService(store, &fakeDeleter{}, &fakeNotifier{})

	memo, err := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "짧은 메모"})
	if err != nil {
		t.Fatalf("CreateMemo failed: %v", err)
	}
	if memo.Title != "짧은 메모" {
		t.Errorf("short content should become the whole title, got %q", memo.Title)
	}
}

func TestCreateMemoRejectsEmptyContent(t *testing.T) {
	svc := newMemosService(newFakeMemoStore(), &fakeDeleter{}, &fakeNotifier{})

	if _, err := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "   "}); err == nil {
		t.Error("expected error for whitespace-only content")
	}
}

func TestCreateMemoRejectsUnknownCategory(t *testing.T) {
	svc := newMemosService(newFakeMemoStore(), &fakeDeleter{}, &fakeNotifier{})

	_, err := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{
		Content:  "content",
		Category: "pinned",
	})
	if err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestDeleteMemoCascadesAttachments(t *testing.T) {
	store := newFakeMemoStore()
	deleter := &fakeDeleter{}
	svc := newMemosService(store, deleter, &fakeNotifier{})

	memo, err := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{
		Content: "with images",
		Images:  []string{"/api/attachments/users/user-1/images/a.jpg", "/api/attachments/users/user-1/images/b.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateMemo failed: %v", err)
	}

	if err := svc.DeleteMemo(context.Background(), memo.ID, "user-1"); err != nil {
		t.Fatalf("DeleteMemo failed: %v", err)
	}

	if len(deleter.calls) != 2 {
		t.Errorf("expected 2 attachment deletions, got %d", len(deleter.calls))
	}
	if len(store.deleted) != 1 {
		t.Errorf("expected memo document removed, got %d deletions", len(store.deleted))
	}
}

func TestDeleteMemoSurvivesAttachmentFailure(t *testing.T) {
	store := newFakeMemoStore()
	deleter := &fakeDeleter{failOn: "/api/attachments/users/user-1/images/broken.jpg"}
	svc := newMemosService(store, deleter, &fakeNotifier{})

	memo, _ := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{
		Content: "with broken image",
		Images:  []string{"/api/attachments/users/user-1/images/broken.jpg"},
	})

	if err := svc.DeleteMemo(context.Background(), memo.ID, "user-1"); err != nil {
		t.Fatalf("memo deletion must succeed despite attachment failure: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Error("memo document should be removed even when a blob delete fails")
	}
}

func TestListViewsPartitionByArchive(t *testing.T) {
	memos := []*model.Memo{
		{ID: "1", Category: model.CategoryTemporary},
		{ID: "2", Category: model.CategoryArchive},
		{ID: "3", Category: model.CategoryMemory},
		{ID: "4", Category: model.CategoryArchive},
	}

	active := ExcludeArchived(memos)
	archived := FilterByCategory(memos, model.CategoryArchive)

	if len(active) != 2 {
		t.Errorf("expected 2 active memos, got %d", len(active))
	}
	if len(archived) != 2 {
		t.Errorf("expected 2 archived memos, got %d", len(archived))
	}
	if len(active)+len(archived) != len(memos) {
		t.Error("active and archived views must partition the memo set")
	}
	for _, memo := range active {
		if memo.Category == model.CategoryArchive {
			t.Errorf("memo %s leaked into the active view", memo.ID)
		}
	}
}

func TestShareMemoPersistsAndNotifies(t *testing.T) {
	store := newFakeMemoStore()
	notifier := &fakeNotifier{}
	svc := newMemosService(store, &fakeDeleter{}, notifier)

	memo, _ := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "shared memo"})

	users := []model.SharedUser{
		{UID: "friend-1", Email: "a@example.com"},
		{UID: "friend-2", Email: "b@example.com", Permissions: model.SharedPermissions{Edit: true}},
	}
	if err := svc.ShareMemo(context.Background(), memo.ID, "user-1", "Sender", users); err != nil {
		t.Fatalf("ShareMemo failed: %v", err)
	}

	fields, ok := store.updates[memo.ID]
	if !ok {
		t.Fatal("expected shared_with to be persisted on the memo")
	}
	if _, ok := fields["shared_with"]; !ok {
		t.Error("update must include the shared_with field")
	}

	if len(notifier.created) != 2 {
		t.Fatalf("expected one notification per shared user, got %d", len(notifier.created))
	}
	if notifier.created[0].ReceiverID != "friend-1" {
		t.Errorf("unexpected receiver %q", notifier.created[0].ReceiverID)
	}
	if notifier.created[0].Type != model.NotificationMemoShared {
		t.Errorf("unexpected notification type %q", notifier.created[0].Type)
	}
}

func TestShareMemoToleratesNotificationFailure(t *testing.T) {
	store := newFakeMemoStore()
	svc := newMemosService(store, &fakeDeleter{}, &fakeNotifier{fail: true})

	memo, _ := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "shared memo"})

	err := svc.ShareMemo(context.Background(), memo.ID, "user-1", "Sender", []model.SharedUser{{UID: "friend-1"}})
	if err != nil {
		t.Errorf("share must succeed even when notifications fail: %v", err)
	}
}

type fakeDirectory struct {
	profiles map[string]*model.UserProfile
}

func (d *fakeDirectory) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	return d.profiles[email], nil
}

func TestShareMemoResolvesEmailTargets(t *testing.T) {
	store := newFakeMemoStore()
	notifier := &fakeNotifier{}
	svc := &MemosService{
		MemoRepo:      store,
		Attachments:   &fakeDeleter{},
		Notifications: notifier,
		Directory: &fakeDirectory{profiles: map[string]*model.UserProfile{
			"friend@example.com": {UserID: "friend-1", DisplayName: "Friend", Email: "friend@example.com"},
		}},
	}

	memo, _ := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "shared memo"})

	users := []model.SharedUser{
		{Email: "friend@example.com"},
		{Email: "stranger@example.com"},
	}
	if err := svc.ShareMemo(context.Background(), memo.ID, "user-1", "Sender", users); err != nil {
		t.Fatalf("ShareMemo failed: %v", err)
	}

	// The resolvable address is shared to by account id; the unknown one is
	// dropped instead of producing a receiverless notification.
	if len(notifier.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.created))
	}
	if notifier.created[0].ReceiverID != "friend-1" {
		t.Errorf("notification addressed to %q, want friend-1", notifier.created[0].ReceiverID)
	}

	saved, ok := store.updates[memo.ID]["shared_with"].([]model.SharedUser)
	if !ok || len(saved) != 1 {
		t.Fatalf("expected 1 persisted shared user, got %#v", store.updates[memo.ID]["shared_with"])
	}
	if saved[0].UID != "friend-1" || saved[0].DisplayName != "Friend" {
		t.Errorf("persisted target must carry the resolved profile, got %+v", saved[0])
	}
}

func TestShareMemoFailsWhenNoTargetResolves(t *testing.T) {
	store := newFakeMemoStore()
	svc := &MemosService{
		MemoRepo:      store,
		Attachments:   &fakeDeleter{},
		Notifications: &fakeNotifier{},
		Directory:     &fakeDirectory{},
	}

	memo, _ := svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "shared memo"})

	err := svc.ShareMemo(context.Background(), memo.ID, "user-1", "Sender",
		[]model.SharedUser{{Email: "nobody@example.com"}})
	if err == nil {
		t.Fatal("expected an error when no share target has an account")
	}
	if _, ok := store.updates[memo.ID]; ok {
		t.Error("an unresolvable share must not touch the memo")
	}
}

func TestGetMemoStats(t *testing.T) {
	store := newFakeMemoStore()
	svc := newMemosService(store, &fakeDeleter{}, &fakeNotifier{})

	svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "one"})
	svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{Content: "two", Category: model.CategoryArchive})
	svc.CreateMemo(context.Background(), "user-1", dto.CreateMemoRequest{
		Content: "three",
		Images:  []string{"/api/attachments/users/user-1/images/x.jpg"},
	})

	stats, err := svc.GetMemoStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetMemoStats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("expected total 3, got %d", stats.Total)
	}
	if stats.Archived != 1 {
		t.Errorf("expected 1 archived, got %d", stats.Archived)
	}
	if stats.WithImage != 1 {
		t.Errorf("expected 1 with image, got %d", stats.WithImage)
	}
}
