package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"main/dto"
	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoStore is the slice of the record store adapter the memo service uses.
type MemoStore interface {
	CreateMemo(ctx context.Context, memo *model.Memo) (string, error)
	GetMemo(ctx context.Context, memoID, userID string) (*model.Memo, error)
	UpdateMemo(ctx context.Context, memoID, userID string, fields bson.M) error
	DeleteMemo(ctx context.Context, memoID, userID string) error
	ListByOwner(ctx context.Context, userID string) ([]*model.Memo, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
}

// AttachmentDeleter removes a stored image blob by its URL.
type AttachmentDeleter interface {
	DeleteByURL(ctx context.Context, ownerID, url string) error
}

// NotificationCreator writes inbox documents; the push worker picks them up.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, notification *model.Notification) (string, error)
}

// UserDirectory resolves sharing targets entered as a bare email address.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)
}

type MemosService struct {
	MemoRepo      MemoStore
	Attachments   AttachmentDeleter
	Notifications NotificationCreator
	Directory     UserDirectory
}

func (svc *MemosService) validateContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.New("memo content cannot be empty")
	}
	if len(content) > 50000 {
		return "", errors.New("memo content exceeds maximum length")
	}
	return content, nil
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

// CreateMemo stores a new memo. The title is derived from the content and
// the category defaults to temporary.
func (svc *MemosService) CreateMemo(ctx context.Context, userID string, req dto.CreateMemoRequest) (*model.Memo, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	content, err := svc.validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = model.CategoryTemporary
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	memo := &model.Memo{
		UserID:   userID,
		Title:    model.DeriveTitle(content),
		Content:  content,
		Category: category,
		Images:   req.Images,
		Tags:     normalizeTags(req.Tags),
	}

	if _, err := svc.MemoRepo.CreateMemo(ctx, memo); err != nil {
		return nil, err
	}

	utils.TrackMemoOperation("create")
	return memo, nil
}

func (svc *MemosService) GetMemo(ctx context.Context, memoID, userID string) (*model.Memo, error) {
	if memoID == "" || userID == "" {
		return nil, errors.New("memo ID and user ID are required")
	}
	return svc.MemoRepo.GetMemo(ctx, memoID, userID)
}

// UpdateMemo rewrites content, category, images and tags. The title is
// re-derived from the new content.
func (svc *MemosService) UpdateMemo(ctx context.Context, memoID, userID string, req dto.UpdateMemoRequest) error {
	content, err := svc.validateContent(req.Content)
	if err != nil {
		return err
	}

	category := req.Category
	if category == "" {
		category = model.CategoryTemporary
	}
	if !model.ValidCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}

	fields := bson.M{
		"title":    model.DeriveTitle(content),
		"content":  content,
		"category": category,
		"images":   req.Images,
		"tags":     normalizeTags(req.Tags),
	}

	if err := svc.MemoRepo.UpdateMemo(ctx, memoID, userID, fields); err != nil {
		return err
	}

	utils.TrackMemoOperation("update")
	return nil
}

// DeleteMemo removes the memo and its attached images. Image deletion is
// best-effort: each failure is logged and skipped, and the memo document is
// removed regardless.
func (svc *MemosService) DeleteMemo(ctx context.Context, memoID, userID string) error {
	memo, err := svc.MemoRepo.GetMemo(ctx, memoID, userID)
	if err != nil {
		return err
	}
	if memo == nil {
		return errors.New("memo not found")
	}

	for _, url := range memo.Images {
		if err := svc.Attachments.DeleteByURL(ctx, userID, url); err != nil {
			log.Printf("Failed to delete attachment %s for memo %s: %v", url, memoID, err)
			utils.TrackError("storage", "cascade_delete_failed")
		}
	}

	if err := svc.MemoRepo.DeleteMemo(ctx, memoID, userID); err != nil {
		return err
	}

	utils.TrackMemoOperation("delete")
	return nil
}

// GetUserMemos returns the default list view: everything except archived,
// already ordered by the store adapter.
func (svc *MemosService) GetUserMemos(ctx context.Context, userID string) ([]*model.Memo, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	memos, err := svc.MemoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ExcludeArchived(memos), nil
}

// GetMemosByCategory narrows the list to a single category.
func (svc *MemosService) GetMemosByCategory(ctx context.Context, userID string, category model.MemoCategory) ([]*model.Memo, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if !model.ValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	memos, err := svc.MemoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(memos, category), nil
}

// GetArchivedMemos returns only the archive category.
func (svc *MemosService) GetArchivedMemos(ctx context.Context, userID string) ([]*model.Memo, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	memos, err := svc.MemoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(memos, model.CategoryArchive), nil
}

// resolveSharedUsers fills in targets the client named only by email. A
// target with no account, or with neither a uid nor an email, is dropped.
func (svc *MemosService) resolveSharedUsers(ctx context.Context, users []model.SharedUser) []model.SharedUser {
	resolved := make([]model.SharedUser, 0, len(users))
	for _, user := range users {
		if user.UID == "" && user.Email != "" && svc.Directory != nil {
			profile, err := svc.Directory.FindByEmail(ctx, user.Email)
			if err != nil {
				log.Printf("Failed to resolve share target %s: %v", user.Email, err)
				continue
			}
			if profile == nil {
				continue
			}
			user.UID = profile.UserID
			if user.DisplayName == "" {
				user.DisplayName = profile.DisplayName
			}
			if user.PhotoURL == "" {
				user.PhotoURL = profile.PhotoURL
			}
		}
		if user.UID == "" {
			continue
		}
		resolved = append(resolved, user)
	}
	return resolved
}

// ShareMemo persists the shared-user list onto the memo and writes one inbox
// notification per shared user. Targets given only by email are looked up in
// the user directory first.
func (svc *MemosService) ShareMemo(ctx context.Context, memoID, userID, senderName string, users []model.SharedUser) error {
	if len(users) == 0 {
		return errors.New("no users to share with")
	}

	memo, err := svc.MemoRepo.GetMemo(ctx, memoID, userID)
	if err != nil {
		return err
	}
	if memo == nil {
		return errors.New("memo not found")
	}

	users = svc.resolveSharedUsers(ctx, users)
	if len(users) == 0 {
		return errors.New("no share targets could be resolved to an account")
	}

	if err := svc.MemoRepo.UpdateMemo(ctx, memoID, userID, bson.M{"shared_with": users}); err != nil {
		return err
	}

	for _, user := range users {
		_, err := svc.Notifications.CreateNotification(ctx, &model.Notification{
			Type:       model.NotificationMemoShared,
			Title:      "메모가 공유되었습니다",
			Body:       memo.Title,
			SenderID:   userID,
			SenderName: senderName,
			ReceiverID: user.UID,
			MemoID:     memoID,
		})
		if err != nil {
			// Sharing already succeeded; a missed notification is not fatal.
			log.Printf("Failed to create share notification for %s: %v", user.UID, err)
			utils.TrackError("database", "share_notification_failed")
		}
	}

	utils.TrackMemoOperation("share")
	return nil
}

// GetMemoStats summarizes the owner's memo set for the dashboard badges.
func (svc *MemosService) GetMemoStats(ctx context.Context, userID string) (*model.MemoStats, error) {
	memos, err := svc.MemoRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.MemoStats{Total: len(memos)}
	for _, memo := range memos {
		switch memo.Category {
		case model.CategoryTemporary:
			stats.Temporary++
		case model.CategoryMemory:
			stats.Memory++
		case model.CategoryArchive:
			stats.Archived++
		}
		if len(memo.Images) > 0 {
			stats.WithImage++
		}
		if len(memo.SharedWith) > 0 {
			stats.Shared++
		}
	}
	return stats, nil
}

// FilterByCategory returns exactly the memos in the given category.
func FilterByCategory(memos []*model.Memo, category model.MemoCategory) []*model.Memo {
	filtered := make([]*model.Memo, 0, len(memos))
	for _, memo := range memos {
		if memo.Category == category {
			filtered = append(filtered, memo)
		}
	}
	return filtered
}

// ExcludeArchived returns the complement of the archive filter.
func ExcludeArchived(memos []*model.Memo) []*model.Memo {
	filtered := make([]*model.Memo, 0, len(memos))
	for _, memo := range memos {
		if memo.Category != model.CategoryArchive {
			filtered = append(filtered, memo)
		}
	}
	return filtered
}
