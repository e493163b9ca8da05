package blob

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
)

// FirebaseStore implements Store on the app's Firebase Storage bucket.
type FirebaseStore struct {
	bucket *storage.BucketHandle
}

// NewFirebaseStore creates a new FirebaseStore.
func NewFirebaseStore(bucket *storage.BucketHandle) *FirebaseStore {
	return &FirebaseStore{bucket: bucket}
}

// Upload reads the full content into memory, writes it to objectPath and
// resolves the object's download URL.
func (s *FirebaseStore) Upload(ctx context.Context, content io.Reader, objectPath, contentType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read image content: %w", err)
	}

	obj := s.bucket.Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectPath, err)
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve URL for object %s: %w", objectPath, err)
	}

	log.Debugf("Uploaded object %s (%d bytes)", objectPath, len(data))
	return attrs.MediaLink, nil
}
