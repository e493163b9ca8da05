package repositories

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/models"
	"github.com/anonto42/social-feed/backend/internal/store"
)

// PostsCollection is the document collection holding feed posts.
const PostsCollection = "posts"

const maxCaptionLength = 500

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	CreatePost(ctx context.Context, caption string, image io.Reader) (string, error)
	GetFeed(ctx context.Context) ([]models.Post, error)
}

// StorePostRepository implements PostRepository on a DocumentStore and a
// blob Store.
type StorePostRepository struct {
	docs  store.DocumentStore
	blobs blob.Store
}

// NewStorePostRepository creates a new StorePostRepository.
func NewStorePostRepository(docs store.DocumentStore, blobs blob.Store) *StorePostRepository {
	return &StorePostRepository{docs: docs, blobs: blobs}
}

// CreatePost uploads the image and creates the post document, returning
// the new post id. Input is validated before any store call; if the
// document write fails after a successful upload the blob is orphaned,
// not cleaned up.
func (r *StorePostRepository) CreatePost(ctx context.Context, caption string, image io.Reader) (string, error) {
	if image == nil {
		return "", &ValidationError{Field: "image", Reason: "an image is required"}
	}
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", &ValidationError{Field: "caption", Reason: "a caption is required"}
	}
	if len([]rune(caption)) > maxCaptionLength {
		return "", &ValidationError{Field: "caption", Reason: fmt.Sprintf("must be at most %d characters", maxCaptionLength)}
	}

	imageURL, err := r.blobs.Upload(ctx, image, blob.PostImagePath(), blob.JPEGContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload post image: %w", err)
	}

	id, err := r.docs.AddDocument(ctx, PostsCollection, map[string]interface{}{
		"imageUrl": imageURL,
		"caption":  caption,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return id, nil
}

// GetFeed returns all posts, newest first.
func (r *StorePostRepository) GetFeed(ctx context.Context) ([]models.Post, error) {
	docs, err := r.docs.QueryOrdered(ctx, PostsCollection, store.FieldCreatedAt, store.Desc)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return PostsFromDocuments(docs), nil
}
