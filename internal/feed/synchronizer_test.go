package feed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/feed"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizerGoesLiveOnFirstSnapshot(t *testing.T) {
	docs := store.NewMemoryStore()
	s := feed.NewSynchronizer(docs)

	assert.Equal(t, feed.Loading, s.State())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, feed.Live, s.State())
	assert.Empty(t, s.Posts())
}

func TestSynchronizerReplacesListOnEveryNotification(t *testing.T) {
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	ctx := context.Background()

	s := feed.NewSynchronizer(docs)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	for _, caption := range []string{"first", "second", "third"} {
		_, err := repo.CreatePost(ctx, caption, strings.NewReader("jpeg bytes"))
		require.NoError(t, err)
	}

	posts := s.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Caption)
	assert.Equal(t, "second", posts[1].Caption)
	assert.Equal(t, "first", posts[2].Caption)
	assert.Equal(t, feed.Live, s.State())
}

func TestSynchronizerUpdatesChannelCarriesLatestSnapshot(t *testing.T) {
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	ctx := context.Background()

	s := feed.NewSynchronizer(docs)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	// nobody drained the channel between writes; the consumer must see
	// the newest snapshot, not a stale intermediate one
	for _, caption := range []string{"first", "second"} {
		_, err := repo.CreatePost(ctx, caption, strings.NewReader("jpeg bytes"))
		require.NoError(t, err)
	}

	posts := <-s.Updates()
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Caption)
}

func TestStoppedSynchronizerIgnoresLaterWrites(t *testing.T) {
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	ctx := context.Background()

	s := feed.NewSynchronizer(docs)
	require.NoError(t, s.Start(ctx))

	_, err := repo.CreatePost(ctx, "before stop", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	require.Len(t, s.Posts(), 1)

	s.Stop()
	s.Stop() // stopping twice is a no-op

	_, err = repo.CreatePost(ctx, "after stop", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	assert.Len(t, s.Posts(), 1, "no notification is applied after Stop")
}

func TestStopWithoutStartIsNoOp(t *testing.T) {
	s := feed.NewSynchronizer(store.NewMemoryStore())
	s.Stop()
}
