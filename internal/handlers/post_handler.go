package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/services"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postService *services.PostService
	trans       ut.Translator
	log         *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, trans ut.Translator, log *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, trans: trans, log: log}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, write)
	g.GET("/posts/:guid", h.GetPost)
	g.DELETE("/posts/:guid", h.DeletePost, write)
}

// CreatePost handles creating a new status message
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PostsFailedCreate)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PostsFailedCreate)
	}

	view, err := h.postService.Create(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPost) || errors.Is(err, services.ErrInvalidAspect) {
			return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PostsFailedCreate)
		}
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, presenters.NewPostPresenter(view.Post, view.Author, view.Photos).AsAPIJSON())
}

// GetPost returns a post the current user may see
func (h *PostHandler) GetPost(c echo.Context) error {
	view, err := h.postService.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, presenters.NewPostPresenter(view.Post, view.Author, view.Photos).AsAPIJSON())
}

// DeletePost deletes one of the current user's posts
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postService.Delete(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) fail(c echo.Context, err error) error {
	if errors.Is(err, services.ErrPostNotFound) {
		return textError(c, h.trans, http.StatusNotFound, i18n.PostsNotFound)
	}
	h.log.Error("post request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}
