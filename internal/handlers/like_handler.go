package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/services"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	postService *services.PostService
	trans       ut.Translator
	log         *zap.Logger
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService *services.PostService, trans ut.Translator, log *zap.Logger) *LikeHandler {
	return &LikeHandler{postService: postService, trans: trans, log: log}
}

// RegisterLikeRoutes registers like routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.POST("/posts/:guid/likes", h.LikePost, write)
	g.DELETE("/posts/:guid/likes", h.UnlikePost, write)
	g.POST("/comments/:guid/likes", h.LikeComment, write)
	g.DELETE("/comments/:guid/likes", h.UnlikeComment, write)
}

// LikePost likes a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	_, err := h.postService.Like(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, services.ErrPostNotFound):
		return textError(c, h.trans, http.StatusNotFound, i18n.PostsNotFound)
	case errors.Is(err, services.ErrLikeExists):
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.LikesLikeExists)
	}
	h.log.Error("like failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}

// UnlikePost removes the current user's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	err := h.postService.Unlike(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, services.ErrPostNotFound):
		return textError(c, h.trans, http.StatusNotFound, i18n.PostsNotFound)
	case errors.Is(err, services.ErrNoLike):
		return textError(c, h.trans, http.StatusGone, i18n.LikesNoLike)
	}
	h.log.Error("unlike failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}

// LikeComment likes a comment
func (h *LikeHandler) LikeComment(c echo.Context) error {
	return h.commentLike(c, h.postService.LikeComment)
}

// UnlikeComment removes the current user's like from a comment
func (h *LikeHandler) UnlikeComment(c echo.Context) error {
	return h.commentLike(c, h.postService.UnlikeComment)
}

func (h *LikeHandler) commentLike(c echo.Context, op func(context.Context, *models.User, string) error) error {
	err := op(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, services.ErrCommentNotFound):
		return textError(c, h.trans, http.StatusNotFound, i18n.CommentsNotFound)
	case errors.Is(err, services.ErrLikeExists):
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.LikesLikeExists)
	case errors.Is(err, services.ErrNoLike):
		return textError(c, h.trans, http.StatusGone, i18n.LikesNoLike)
	}
	h.log.Error("comment like failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}
