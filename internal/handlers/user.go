package handlers

import (
	"io"
	"net/http"

	"github.com/anonto42/social-feed/backend/internal/models"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to the demo user's profile.
type UserHandler struct {
	userRepository repositories.UserRepository
	demoUserID     string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, demoUserID string) *UserHandler {
	return &UserHandler{userRepository: userRepo, demoUserID: demoUserID}
}

// RegisterProfileRoutes registers profile-related routes. The bare
// /profile routes address the app's single demo identity.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.SaveProfile)
	g.GET("/users/:id/profile", h.GetProfile)
	g.PUT("/users/:id/profile", h.SaveProfile)
}

// GetProfile returns the profile for the given user id. A missing
// profile document yields the default placeholder profile, not a 404.
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userRepository.LoadProfile(c.Request().Context(), h.userID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) userID(c echo.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return h.demoUserID
}

// SaveProfile creates or updates the profile from a multipart form
// carrying name, bio and optionally a new photo file or a remove_photo
// flag.
func (h *UserHandler) SaveProfile(c echo.Context) error {
	var req models.SaveProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var photo io.Reader
	if file, err := c.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded photo")
		}
		defer src.Close()
		photo = src
	}
	removePhoto := c.FormValue("remove_photo") == "true"

	profile, err := h.userRepository.SaveProfile(c.Request().Context(), h.userID(c), req.Name, req.Bio, photo, removePhoto)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, profile)
}
