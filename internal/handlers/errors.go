package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// toHTTPError translates repository errors into HTTP responses:
// validation failures are the caller's fault, everything else from the
// store surfaces as a generic failure.
func toHTTPError(err error) *echo.HTTPError {
	if repositories.IsValidationError(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
