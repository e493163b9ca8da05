package repositories_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoUserID = "user123"

func newUserRepo() (*repositories.StoreUserRepository, *store.MemoryStore) {
	docs := store.NewMemoryStore()
	return repositories.NewStoreUserRepository(docs, blob.NewMemoryStore("https://cdn")), docs
}

func TestLoadProfileSynthesizesDefaultWithoutPersisting(t *testing.T) {
	repo, docs := newUserRepo()
	ctx := context.Background()

	profile, err := repo.LoadProfile(ctx, demoUserID)
	require.NoError(t, err)

	assert.Equal(t, demoUserID, profile.ID)
	assert.Equal(t, "Demo User", profile.Name)
	assert.Equal(t, "Welcome to my profile! Click Edit Profile to customize.", profile.Bio)
	assert.Nil(t, profile.PhotoURL)

	doc, err := docs.GetDocument(ctx, repositories.UsersCollection, demoUserID)
	require.NoError(t, err)
	assert.Nil(t, doc, "default profile must not be written back")
}

func TestLoadProfileIsIdempotent(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	_, err := repo.SaveProfile(ctx, demoUserID, "Ada", "hello", nil, false)
	require.NoError(t, err)

	first, err := repo.LoadProfile(ctx, demoUserID)
	require.NoError(t, err)
	second, err := repo.LoadProfile(ctx, demoUserID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSaveProfileValidation(t *testing.T) {
	tests := []struct {
		name        string
		profileName string
		bio         string
	}{
		{name: "empty name", profileName: "", bio: "fine"},
		{name: "whitespace name", profileName: "   ", bio: "fine"},
		{name: "bio too long", profileName: "Ada", bio: strings.Repeat("b", 201)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := &countingStore{DocumentStore: store.NewMemoryStore()}
			repo := repositories.NewStoreUserRepository(docs, blob.NewMemoryStore("https://cdn"))

			_, err := repo.SaveProfile(context.Background(), demoUserID, tt.profileName, tt.bio, nil, false)

			assert.True(t, repositories.IsValidationError(err))
			assert.Zero(t, docs.calls, "no store call on invalid input")
		})
	}
}

func TestSaveProfileCreatesThenUpdates(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	created, err := repo.SaveProfile(ctx, demoUserID, " Ada Lovelace ", " First programmer ", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", created.Name, "name is trimmed")
	assert.Equal(t, "First programmer", created.Bio, "bio is trimmed")
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	updated, err := repo.SaveProfile(ctx, demoUserID, "Ada", "still here", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "createdAt survives updates")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestSaveProfilePhotoLifecycle(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()

	// upload a new photo
	withPhoto, err := repo.SaveProfile(ctx, demoUserID, "Ada", "hello", strings.NewReader("jpeg bytes"), false)
	require.NoError(t, err)
	require.NotNil(t, withPhoto.PhotoURL)
	assert.Regexp(t, `^https://cdn/profiles/profile_user123_\d+\.jpg$`, *withPhoto.PhotoURL)

	// saving without a new photo keeps the stored one
	kept, err := repo.SaveProfile(ctx, demoUserID, "Ada", "hello again", nil, false)
	require.NoError(t, err)
	require.NotNil(t, kept.PhotoURL)
	assert.Equal(t, *withPhoto.PhotoURL, *kept.PhotoURL)

	// removing the photo clears it
	removed, err := repo.SaveProfile(ctx, demoUserID, "Ada", "hello again", nil, true)
	require.NoError(t, err)
	assert.Nil(t, removed.PhotoURL)
}
