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

// UsersCollection is the document collection holding user profiles,
// keyed by the external user identifier.
const UsersCollection = "users"

const maxBioLength = 200

// Placeholder shown when no profile document exists yet. It is never
// written to the store.
const (
	defaultProfileName = "Demo User"
	defaultProfileBio  = "Welcome to my profile! Click Edit Profile to customize."
)

// UserRepository defines the interface for profile data operations.
type UserRepository interface {
	LoadProfile(ctx context.Context, userID string) (*models.Profile, error)
	SaveProfile(ctx context.Context, userID, name, bio string, photo io.Reader, removePhoto bool) (*models.Profile, error)
}

// StoreUserRepository implements UserRepository on a DocumentStore and a
// blob Store.
type StoreUserRepository struct {
	docs  store.DocumentStore
	blobs blob.Store
}

// NewStoreUserRepository creates a new StoreUserRepository.
func NewStoreUserRepository(docs store.DocumentStore, blobs blob.Store) *StoreUserRepository {
	return &StoreUserRepository{docs: docs, blobs: blobs}
}

// LoadProfile reads the profile document. If it is absent a default
// placeholder profile is synthesized in memory without persisting it.
func (r *StoreUserRepository) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	doc, err := r.docs.GetDocument(ctx, UsersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if doc == nil {
		return &models.Profile{
			ID:   userID,
			Name: defaultProfileName,
			Bio:  defaultProfileBio,
		}, nil
	}

	profile := ProfileFromDocument(*doc)
	return &profile, nil
}

// SaveProfile validates the fields, uploads the new photo if one was
// selected, then creates or updates the profile document. Existence is
// re-checked immediately before the write to decide create-vs-update;
// this is not transactional, which is acceptable for the single-writer
// deployment. When no new photo is given the stored one is kept unless
// removePhoto is set.
func (r *StoreUserRepository) SaveProfile(ctx context.Context, userID, name, bio string, photo io.Reader, removePhoto bool) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "a name is required"}
	}
	bio = strings.TrimSpace(bio)
	if len([]rune(bio)) > maxBioLength {
		return nil, &ValidationError{Field: "bio", Reason: fmt.Sprintf("must be at most %d characters", maxBioLength)}
	}

	var photoURL *string
	if photo != nil {
		url, err := r.blobs.Upload(ctx, photo, blob.ProfileImagePath(userID), blob.JPEGContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload profile photo: %w", err)
		}
		photoURL = &url
	}

	existing, err := r.docs.GetDocument(ctx, UsersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile existence: %w", err)
	}
	if photoURL == nil && !removePhoto && existing != nil {
		photoURL = optionalStringField(existing.Fields, "photoURL")
	}

	fields := map[string]interface{}{
		"name":     name,
		"bio":      bio,
		"photoURL": photoURLValue(photoURL),
	}

	if existing != nil {
		err = r.docs.UpdateDocument(ctx, UsersCollection, userID, fields)
	} else {
		err = r.docs.SetDocument(ctx, UsersCollection, userID, fields)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return r.LoadProfile(ctx, userID)
}

func photoURLValue(photoURL *string) interface{} {
	if photoURL == nil {
		return nil
	}
	return *photoURL
}
