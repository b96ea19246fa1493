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

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	postService *services.PostService
	trans       ut.Translator
	log         *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postService *services.PostService, trans ut.Translator, log *zap.Logger) *CommentHandler {
	return &CommentHandler{postService: postService, trans: trans, log: log}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.GET("/posts/:guid/comments", h.GetComments)
	g.POST("/posts/:guid/comments", h.CreateComment, write)
}

// CreateComment comments on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.CommentsFailedCreate)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.CommentsFailedCreate)
	}

	comment, err := h.postService.Comment(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"), req.Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, presenters.CommentAsAPIJSON(comment))
}

// GetComments lists the comments of a post, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.postService.Comments(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]presenters.CommentJSON, len(comments))
	for i := range comments {
		out[i] = presenters.CommentAsAPIJSON(&comments[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) fail(c echo.Context, err error) error {
	if errors.Is(err, services.ErrPostNotFound) {
		return textError(c, h.trans, http.StatusNotFound, i18n.PostsNotFound)
	}
	h.log.Error("comment request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}
