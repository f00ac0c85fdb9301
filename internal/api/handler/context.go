package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/essentialtimes/newsroom/internal/api/middleware"
	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// absence means the route was registered without Auth.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.ID == 0 {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "access token required")
	}
	return identity, nil
}

// pathID parses the :id path parameter. Malformed ids read as not found.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// pageQuery reads the optional page and limit query parameters.
func pageQuery(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, domain.NewValidationError("page", "page and limit must be integers")
	}
	return page, limit, nil
}
