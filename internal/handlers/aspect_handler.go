package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/anonto42/social-pod/backend/internal/services"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AspectHandler handles aspects and the contacts placed in them
type AspectHandler struct {
	aspectRepository    repositories.AspectRepository
	personRepository    repositories.PersonRepository
	notificationService *services.NotificationService
	trans               ut.Translator
	log                 *zap.Logger
}

// NewAspectHandler creates a new AspectHandler
func NewAspectHandler(
	aspectRepo repositories.AspectRepository,
	personRepo repositories.PersonRepository,
	notificationService *services.NotificationService,
	trans ut.Translator,
	log *zap.Logger,
) *AspectHandler {
	return &AspectHandler{
		aspectRepository:    aspectRepo,
		personRepository:    personRepo,
		notificationService: notificationService,
		trans:               trans,
		log:                 log,
	}
}

// RegisterAspectRoutes registers aspect and contact routes
func (h *AspectHandler) RegisterAspectRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.GET("/aspects", h.ListAspects)
	g.POST("/aspects", h.CreateAspect, write)
	g.GET("/aspects/:id/contacts", h.ListContacts)
	g.POST("/aspects/:id/contacts", h.AddContact, write)
	g.DELETE("/aspects/:id/contacts/:guid", h.RemoveContact, write)
}

// ListAspects returns the current user's aspects
func (h *AspectHandler) ListAspects(c echo.Context) error {
	aspects, err := h.aspectRepository.ListAspects(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return h.internal(c, err)
	}
	if aspects == nil {
		aspects = []models.Aspect{}
	}
	return c.JSON(http.StatusOK, aspects)
}

// CreateAspect creates a new aspect
func (h *AspectHandler) CreateAspect(c echo.Context) error {
	var req models.CreateAspectRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.AspectsCantCreate)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.AspectsCantCreate)
	}

	aspect := &models.Aspect{UserID: middleware.CurrentUser(c).ID, Name: req.Name}
	if err := h.aspectRepository.CreateAspect(c.Request().Context(), aspect); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.AspectsCantCreate)
		}
		return h.internal(c, err)
	}
	return c.JSON(http.StatusOK, aspect)
}

// ListContacts returns the people in one of the current user's aspects
func (h *AspectHandler) ListContacts(c echo.Context) error {
	aspect, ok, err := h.aspect(c)
	if !ok {
		return err
	}
	people, err := h.aspectRepository.ListMembers(c.Request().Context(), aspect.ID)
	if err != nil {
		return h.internal(c, err)
	}
	out := make([]presenters.PersonJSON, len(people))
	for i := range people {
		out[i] = presenters.NewPersonPresenter(&people[i]).AsAPIJSON()
	}
	return c.JSON(http.StatusOK, out)
}

// AddContact starts sharing with a person by placing them in an aspect
func (h *AspectHandler) AddContact(c echo.Context) error {
	aspect, ok, err := h.aspect(c)
	if !ok {
		return err
	}

	var req models.ShareWithRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.ContactsCantCreate)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.ContactsCantCreate)
	}

	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)
	person, err := h.personRepository.GetByGUID(ctx, req.PersonGUID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.ContactsCantCreate)
		}
		return h.internal(c, err)
	}
	if person.ID == user.PersonID {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.ContactsCantCreate)
	}

	alreadySharing, err := h.aspectRepository.SharesWith(ctx, user.ID, person.ID)
	if err != nil {
		return h.internal(c, err)
	}
	if _, err := h.aspectRepository.AddMember(ctx, aspect.ID, person.ID); err != nil {
		return h.internal(c, err)
	}
	if !alreadySharing {
		h.notificationService.NotifyQuietly(ctx, person.ID, models.NotificationStartedSharing, user.Person.GUID, user.PersonID)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveContact takes a person out of an aspect
func (h *AspectHandler) RemoveContact(c echo.Context) error {
	aspect, ok, err := h.aspect(c)
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	person, err := h.personRepository.GetByGUID(ctx, c.Param("guid"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return textError(c, h.trans, http.StatusNotFound, i18n.ContactsNotFound)
		}
		return h.internal(c, err)
	}
	if err := h.aspectRepository.RemoveMember(ctx, aspect.ID, person.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return textError(c, h.trans, http.StatusNotFound, i18n.ContactsNotFound)
		}
		return h.internal(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// aspect loads the :id aspect of the current user. When ok is false the
// error response has already been produced and err is the handler result.
func (h *AspectHandler) aspect(c echo.Context) (aspect *models.Aspect, ok bool, err error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, false, textError(c, h.trans, http.StatusNotFound, i18n.AspectsNotFound)
	}
	aspect, err = h.aspectRepository.GetAspect(c.Request().Context(), middleware.CurrentUser(c).ID, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, textError(c, h.trans, http.StatusNotFound, i18n.AspectsNotFound)
		}
		return nil, false, h.internal(c, err)
	}
	return aspect, true, nil
}

func (h *AspectHandler) internal(c echo.Context, err error) error {
	h.log.Error("aspect request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}
