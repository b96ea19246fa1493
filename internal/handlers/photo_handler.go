package handlers

import (
	"errors"
	"io"
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

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
	trans        ut.Translator
	log          *zap.Logger
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(photoService *services.PhotoService, trans ut.Translator, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photoService: photoService, trans: trans, log: log}
}

// RegisterPhotoRoutes registers photo routes; write guards the mutating ones
func (h *PhotoHandler) RegisterPhotoRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.GET("/photos", h.ListPhotos)
	g.GET("/photos/:guid", h.GetPhoto)
	g.POST("/photos", h.CreatePhoto, write)
	g.DELETE("/photos/:guid", h.DeletePhoto, write)
}

// GetPhoto returns a photo the current user may see
func (h *PhotoHandler) GetPhoto(c echo.Context) error {
	photo, err := h.photoService.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, presenters.NewPhotoPresenter(photo).AsAPIJSON())
}

// ListPhotos returns the current user's own photos
func (h *PhotoHandler) ListPhotos(c echo.Context) error {
	page, perPage := pagination(c)
	photos, total, err := h.photoService.List(c.Request().Context(), middleware.CurrentUser(c), page, perPage)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": presenters.PhotosAsAPIJSON(photos),
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

// CreatePhoto handles a multipart upload with an "image" file
func (h *PhotoHandler) CreatePhoto(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PhotosFailedCreate)
	}
	var req models.CreatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PhotosFailedCreate)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PhotosFailedCreate)
	}
	defer src.Close()

	var r io.Reader = src
	if max := h.photoService.MaxBytes(); max > 0 {
		// one byte over the limit is enough for the service to reject it
		r = io.LimitReader(src, max+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PhotosFailedCreate)
	}

	photo, err := h.photoService.Create(c.Request().Context(), middleware.CurrentUser(c),
		services.Upload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get(echo.HeaderContentType),
			Data:        data,
		},
		services.PhotoOptions{
			Pending:         req.Pending,
			SetProfilePhoto: req.SetProfilePhoto,
			AspectIDs:       req.AspectIDs,
		},
	)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, presenters.NewPhotoPresenter(photo).AsAPIJSON())
}

// DeletePhoto removes one of the current user's photos
func (h *PhotoHandler) DeletePhoto(c echo.Context) error {
	if err := h.photoService.Delete(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PhotoHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrPhotoNotFound):
		return textError(c, h.trans, http.StatusNotFound, i18n.PhotosNotFound)
	case errors.Is(err, services.ErrInvalidImage), errors.Is(err, services.ErrInvalidAspect):
		h.log.Debug("photo upload rejected", zap.Error(err))
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.PhotosFailedCreate)
	}
	h.log.Error("photo request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}
