package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"main/config"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttachmentURLPrefix is where the attachment handler serves blobs from.
// Everything after the prefix is the storage path.
const AttachmentURLPrefix = "/api/attachments/"

// AttachmentStore keeps memo images in a GridFS bucket under a deterministic
// per-user path, users/{ownerID}/images/{name}.
type AttachmentStore struct {
	bucket *gridfs.Bucket
	cfg    config.AttachmentConfig
}

type AttachmentInfo struct {
	Path        string
	ContentType string
	Size        int64
}

func NewAttachmentStore(db *mongo.Database, cfg config.AttachmentConfig) (*AttachmentStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("attachments"))
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment bucket: %w", err)
	}
	return &AttachmentStore{bucket: bucket, cfg: cfg}, nil
}

// StoragePath builds the per-user blob path for a new upload.
func StoragePath(ownerID, filename string) string {
	return fmt.Sprintf("users/%s/images/%s-%s", ownerID, utils.GenerateID(), filename)
}

// Upload validates, compresses and stores an image, returning the URL path
// clients embed in memo documents.
func (s *AttachmentStore) Upload(ctx context.Context, ownerID, filename string, data []byte) (string, error) {
	if ownerID == "" {
		return "", fmt.Errorf("owner ID is required")
	}
	if err := ValidateImage(data); err != nil {
		return "", err
	}

	originalSize := len(data)
	compressed, contentType, err := CompressImage(data, CompressOptions{
		MaxWidth:  s.cfg.MaxWidth,
		MaxHeight: s.cfg.MaxHeight,
		Quality:   s.cfg.JPEGQuality,
	})
	if err != nil {
		return "", err
	}

	path := StoragePath(ownerID, filename)
	metadata := bson.M{
		"owner_id":      ownerID,
		"original_name": filename,
		"original_size": originalSize,
		"stored_size":   len(compressed),
		"content_type":  contentType,
		"uploaded_at":   time.Now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	if err := s.bucket.UploadFromStreamWithID(utils.GenerateID(), path, bytes.NewReader(compressed), opts); err != nil {
		utils.TrackError("storage", "upload_failed")
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	utils.AttachmentBytes.WithLabelValues(contentType).Observe(float64(len(compressed)))
	return AttachmentURLPrefix + path, nil
}

// Open streams a stored blob by its storage path.
func (s *AttachmentStore) Open(path string) (io.ReadCloser, *AttachmentInfo, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(path)
	if err != nil {
		if err == gridfs.ErrFileNotFound {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
	}

	info := &AttachmentInfo{
		Path: path,
		Size: stream.GetFile().Length,
	}
	var metadata struct {
		ContentType string `bson:"content_type"`
	}
	if raw := stream.GetFile().Metadata; raw != nil {
		if err := bson.Unmarshal(raw, &metadata); err == nil {
			info.ContentType = metadata.ContentType
		}
	}
	return stream, info, nil
}

// PathFromURL extracts the storage path from an attachment URL, tolerating
// both absolute URLs and bare paths. Returns "" for foreign URLs.
func PathFromURL(url string) string {
	idx := strings.Index(url, AttachmentURLPrefix)
	if idx < 0 {
		return ""
	}
	return url[idx+len(AttachmentURLPrefix):]
}

// DeleteByURL removes a stored blob. Only paths under the owner's prefix are
// deletable; anything else is rejected.
func (s *AttachmentStore) DeleteByURL(ctx context.Context, ownerID, url string) error {
	path := PathFromURL(url)
	if path == "" {
		return fmt.Errorf("not an attachment URL: %s", url)
	}
	if !strings.HasPrefix(path, "users/"+ownerID+"/") {
		return fmt.Errorf("attachment does not belong to user")
	}

	cursor, err := s.bucket.Find(bson.M{"filename": path})
	if err != nil {
		return fmt.Errorf("failed to look up attachment: %w", err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID interface{} `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("failed to decode attachment lookup: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("attachment not found: %s", path)
	}

	for _, file := range files {
		if err := s.bucket.Delete(file.ID); err != nil {
			utils.TrackError("storage", "delete_failed")
			return fmt.Errorf("failed to delete attachment: %w", err)
		}
	}
	return nil
}
