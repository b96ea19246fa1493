package handlers

import (
	"strconv"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// PageMeta describes a page of a listing.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// textError renders a localized plain text error body.
func textError(c echo.Context, trans ut.Translator, status int, key string) error {
	return c.String(status, i18n.T(trans, key))
}

// pagination reads page and per_page, falling back to sane defaults.
func pagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
