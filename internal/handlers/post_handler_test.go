package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/handlers"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/anonto42/social-feed/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCreatePostReturnsNewPostID(t *testing.T) {
	e := newEcho()
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	h := handlers.NewPostHandler(repo)

	body, contentType := multipartBody(t, map[string]string{"caption": "Hello world"}, "image", "photo.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])

	docsInStore, err := docs.QueryOrdered(c.Request().Context(), repositories.PostsCollection, store.FieldCreatedAt, store.Desc)
	require.NoError(t, err)
	require.Len(t, docsInStore, 1)
	assert.Equal(t, "Hello world", docsInStore[0].Fields["caption"])
}

func TestCreatePostWithoutImageIsRejected(t *testing.T) {
	e := newEcho()
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	h := handlers.NewPostHandler(repo)

	body, contentType := multipartBody(t, map[string]string{"caption": "no image"}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePost(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreatePostWithoutCaptionIsRejected(t *testing.T) {
	e := newEcho()
	docs := store.NewMemoryStore()
	repo := repositories.NewStorePostRepository(docs, blob.NewMemoryStore("https://cdn"))
	h := handlers.NewPostHandler(repo)

	body, contentType := multipartBody(t, nil, "image", "photo.jpg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePost(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
