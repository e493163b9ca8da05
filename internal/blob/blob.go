package blob

import (
	"context"
	"fmt"
	"io"
	"time"
)

// JPEGContentType is the content type of every uploaded image; the
// client-side picker always delivers JPEG-compatible bytes.
const JPEGContentType = "image/jpeg"

// Store uploads locally-available bytes to an object path and resolves a
// stable, fetchable URL. Each call creates exactly one new object; no
// retry is performed and failures surface to the caller unmodified.
type Store interface {
	Upload(ctx context.Context, content io.Reader, objectPath, contentType string) (string, error)
}

// PostImagePath builds a collision-resistant object path for a post image.
func PostImagePath() string {
	return fmt.Sprintf("posts/post_%d.jpg", time.Now().UnixMilli())
}

// ProfileImagePath builds a collision-resistant object path for a
// profile photo.
func ProfileImagePath(userID string) string {
	return fmt.Sprintf("profiles/profile_%s_%d.jpg", userID, time.Now().UnixMilli())
}
