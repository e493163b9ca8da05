package handlers

import (
	"io"
	"net/http"

	"github.com/anonto42/social-feed/backend/internal/models"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
}

// CreatePost creates a new post from a multipart form carrying the
// caption and the picked image file.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The image part is optional at the transport level; the repository
	// rejects a missing image before any store call.
	var image io.Reader
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded image")
		}
		defer src.Close()
		image = src
	}

	id, err := h.postRepository.CreatePost(c.Request().Context(), req.Caption, image)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
