package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/services"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FeedHandler serves a person's stream of posts
type FeedHandler struct {
	postService *services.PostService
	trans       ut.Translator
	log         *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postService *services.PostService, trans ut.Translator, log *zap.Logger) *FeedHandler {
	return &FeedHandler{postService: postService, trans: trans, log: log}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/people/:guid/posts", h.GetPersonPosts)
}

// GetPersonPosts returns a page of the person's posts visible to the current user
func (h *FeedHandler) GetPersonPosts(c echo.Context) error {
	page, perPage := pagination(c)
	views, total, err := h.postService.Stream(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"), page, perPage)
	if err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			return textError(c, h.trans, http.StatusNotFound, i18n.PeopleNotFound)
		}
		h.log.Error("stream failed", zap.String("person", c.Param("guid")), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	data := make([]presenters.PostJSON, len(views))
	for i, v := range views {
		data[i] = presenters.NewPostPresenter(v.Post, v.Author, v.Photos).AsAPIJSON()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": data,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}
