package repositories

import (
	"time"

	"github.com/anonto42/social-feed/backend/internal/models"
	"github.com/anonto42/social-feed/backend/internal/store"
)

// PostFromDocument maps a posts-collection document onto a Post.
func PostFromDocument(doc store.Document) models.Post {
	return models.Post{
		ID:        doc.ID,
		ImageURL:  stringField(doc.Fields, "imageUrl"),
		Caption:   stringField(doc.Fields, "caption"),
		CreatedAt: timeField(doc.Fields, store.FieldCreatedAt),
	}
}

// PostsFromDocuments maps an ordered document snapshot onto posts,
// preserving order.
func PostsFromDocuments(docs []store.Document) []models.Post {
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, PostFromDocument(doc))
	}
	return posts
}

// ProfileFromDocument maps a users-collection document onto a Profile.
func ProfileFromDocument(doc store.Document) models.Profile {
	return models.Profile{
		ID:        doc.ID,
		Name:      stringField(doc.Fields, "name"),
		Bio:       stringField(doc.Fields, "bio"),
		PhotoURL:  optionalStringField(doc.Fields, "photoURL"),
		CreatedAt: timeField(doc.Fields, store.FieldCreatedAt),
		UpdatedAt: timeField(doc.Fields, store.FieldUpdatedAt),
	}
}

func stringField(fields map[string]interface{}, key string) string {
	v, _ := fields[key].(string)
	return v
}

func optionalStringField(fields map[string]interface{}, key string) *string {
	v, ok := fields[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func timeField(fields map[string]interface{}, key string) time.Time {
	v, _ := fields[key].(time.Time)
	return v
}
