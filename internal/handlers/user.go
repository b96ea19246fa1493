package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests related to the current user
type UserHandler struct {
	personRepository repositories.PersonRepository
	trans            ut.Translator
	log              *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(personRepo repositories.PersonRepository, trans ut.Translator, log *zap.Logger) *UserHandler {
	return &UserHandler{personRepository: personRepo, trans: trans, log: log}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.GET("/user", h.GetProfile)
	g.PATCH("/user", h.UpdateProfile, write)
}

// GetProfile returns the authenticated user's person and profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	person, err := h.personRepository.GetByID(c.Request().Context(), middleware.CurrentUser(c).PersonID)
	if err != nil {
		h.log.Error("failed to load profile", zap.Error(err))
		return textError(c, h.trans, http.StatusNotFound, i18n.UsersNotFound)
	}
	return c.JSON(http.StatusOK, presenters.NewPersonPresenter(person).AsProfileJSON())
}

// UpdateProfile updates the authenticated user's names
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.UsersCantUpdate)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.UsersCantUpdate)
	}

	ctx := c.Request().Context()
	person, err := h.personRepository.GetByID(ctx, middleware.CurrentUser(c).PersonID)
	if err != nil {
		h.log.Error("failed to load profile", zap.Error(err))
		return textError(c, h.trans, http.StatusNotFound, i18n.UsersNotFound)
	}

	if req.FirstName != nil {
		person.Profile.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		person.Profile.LastName = strings.TrimSpace(*req.LastName)
	}
	person.Profile.PersonID = person.ID
	if err := h.personRepository.UpdateProfile(ctx, &person.Profile); err != nil {
		h.log.Error("failed to update profile", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, presenters.NewPersonPresenter(person).AsProfileJSON())
}
