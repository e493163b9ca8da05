package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/anonto42/social-feed/backend/internal/feed"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// FeedHandler handles feed-related HTTP requests.
type FeedHandler struct {
	postRepository repositories.PostRepository
	docs           store.DocumentStore
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(postRepo repositories.PostRepository, docs store.DocumentStore) *FeedHandler {
	return &FeedHandler{postRepository: postRepo, docs: docs}
}

// RegisterFeedRoutes registers feed-related routes.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/stream", h.StreamFeed)
}

// GetFeed returns a one-shot snapshot of the feed, newest first.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	posts, err := h.postRepository.GetFeed(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// StreamFeed streams feed snapshots over server-sent events. Each
// connection owns one feed synchronizer whose subscription is cancelled
// when the client disconnects.
func (h *FeedHandler) StreamFeed(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	liveFeed := feed.NewSynchronizer(h.docs)
	if err := liveFeed.Start(ctx); err != nil {
		log.Errorf("Failed to open feed subscription: %v", err)
		return nil
	}
	defer liveFeed.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case posts := <-liveFeed.Updates():
			payload, err := json.Marshal(posts)
			if err != nil {
				log.Errorf("Failed to encode feed snapshot: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
