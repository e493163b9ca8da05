package blob_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPathPatterns(t *testing.T) {
	assert.Regexp(t, `^posts/post_\d+\.jpg$`, blob.PostImagePath())
	assert.Regexp(t, `^profiles/profile_user123_\d+\.jpg$`, blob.ProfileImagePath("user123"))
}

func TestMemoryStoreUploadResolvesURL(t *testing.T) {
	s := blob.NewMemoryStore("https://cdn")

	url, err := s.Upload(context.Background(), strings.NewReader("jpeg bytes"), "posts/post_1000.jpg", blob.JPEGContentType)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/posts/post_1000.jpg", url)

	data, ok := s.Object("posts/post_1000.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg bytes"), data)
}
