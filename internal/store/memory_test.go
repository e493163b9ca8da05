package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDocumentAbsentIsNotAnError(t *testing.T) {
	s := store.NewMemoryStore()

	doc, err := s.GetDocument(context.Background(), "users", "user123")

	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSetDocumentStampsBothTimestamps(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	err := s.SetDocument(ctx, "users", "user123", map[string]interface{}{"name": "Demo User"})
	require.NoError(t, err)

	doc, err := s.GetDocument(ctx, "users", "user123")
	require.NoError(t, err)
	require.NotNil(t, doc)

	createdAt, ok := doc.Fields[store.FieldCreatedAt].(time.Time)
	require.True(t, ok)
	updatedAt, ok := doc.Fields[store.FieldUpdatedAt].(time.Time)
	require.True(t, ok)
	assert.Equal(t, createdAt, updatedAt)
	assert.Equal(t, "Demo User", doc.Fields["name"])
}

func TestUpdateDocumentMissingFailsNotFound(t *testing.T) {
	s := store.NewMemoryStore()

	err := s.UpdateDocument(context.Background(), "users", "user123", map[string]interface{}{"name": "X"})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateDocumentRefreshesUpdatedAtOnly(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SetDocument(ctx, "users", "user123", map[string]interface{}{"name": "Demo User", "bio": "hi"}))
	before, err := s.GetDocument(ctx, "users", "user123")
	require.NoError(t, err)

	require.NoError(t, s.UpdateDocument(ctx, "users", "user123", map[string]interface{}{"name": "New Name"}))
	after, err := s.GetDocument(ctx, "users", "user123")
	require.NoError(t, err)

	assert.Equal(t, before.Fields[store.FieldCreatedAt], after.Fields[store.FieldCreatedAt])
	assert.True(t, after.Fields[store.FieldUpdatedAt].(time.Time).After(before.Fields[store.FieldUpdatedAt].(time.Time)))
	assert.Equal(t, "New Name", after.Fields["name"])
	assert.Equal(t, "hi", after.Fields["bio"], "unmentioned fields survive a partial merge")
}

func TestQueryOrderedNewestFirst(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for _, caption := range []string{"first", "second", "third"} {
		_, err := s.AddDocument(ctx, "posts", map[string]interface{}{"caption": caption})
		require.NoError(t, err)
	}

	docs, err := s.QueryOrdered(ctx, "posts", store.FieldCreatedAt, store.Desc)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third", docs[0].Fields["caption"])
	assert.Equal(t, "second", docs[1].Fields["caption"])
	assert.Equal(t, "first", docs[2].Fields["caption"])
}

func TestSubscribeFirstSnapshotMatchesQuery(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for _, caption := range []string{"first", "second"} {
		_, err := s.AddDocument(ctx, "posts", map[string]interface{}{"caption": caption})
		require.NoError(t, err)
	}
	want, err := s.QueryOrdered(ctx, "posts", store.FieldCreatedAt, store.Desc)
	require.NoError(t, err)

	var got [][]store.Document
	cancel, err := s.Subscribe(ctx, "posts", store.FieldCreatedAt, store.Desc, func(docs []store.Document) {
		got = append(got, docs)
	})
	require.NoError(t, err)
	defer cancel()

	require.Len(t, got, 1)
	assert.Equal(t, want, got[0])
}

func TestSubscribeNotifiesOnEveryWrite(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var got [][]store.Document
	cancel, err := s.Subscribe(ctx, "posts", store.FieldCreatedAt, store.Desc, func(docs []store.Document) {
		got = append(got, docs)
	})
	require.NoError(t, err)
	defer cancel()

	_, err = s.AddDocument(ctx, "posts", map[string]interface{}{"caption": "hello"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Empty(t, got[0])
	require.Len(t, got[1], 1)
	assert.Equal(t, "hello", got[1][0].Fields["caption"])
}

func TestCancelledSubscriptionIsNeverNotifiedAgain(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	notifications := 0
	cancel, err := s.Subscribe(ctx, "posts", store.FieldCreatedAt, store.Desc, func(docs []store.Document) {
		notifications++
	})
	require.NoError(t, err)
	require.Equal(t, 1, notifications)

	cancel()
	cancel() // second cancel is a no-op

	_, err = s.AddDocument(ctx, "posts", map[string]interface{}{"caption": "after cancel"})
	require.NoError(t, err)

	assert.Equal(t, 1, notifications)
}

func TestTimestampsNeverDecrease(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var last time.Time
	for i := 0; i < 100; i++ {
		id, err := s.AddDocument(ctx, "posts", map[string]interface{}{"caption": "x"})
		require.NoError(t, err)
		doc, err := s.GetDocument(ctx, "posts", id)
		require.NoError(t, err)
		createdAt := doc.Fields[store.FieldCreatedAt].(time.Time)
		assert.True(t, createdAt.After(last))
		last = createdAt
	}
}
