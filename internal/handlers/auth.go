package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAspects are created for every new account.
var DefaultAspects = []string{"Family", "Friends", "Work", "Acquaintances"}

// IDTokenVerifier verifies Firebase ID tokens; *firebaseauth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository   repositories.UserRepository
	aspectRepository repositories.AspectRepository
	tokens           *auth.Tokens
	firebaseAuth     IDTokenVerifier // nil when Firebase is not configured
	podHost          string
	trans            ut.Translator
	log              *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo repositories.UserRepository,
	aspectRepo repositories.AspectRepository,
	tokens *auth.Tokens,
	firebaseAuth IDTokenVerifier,
	podHost string,
	trans ut.Translator,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepository:   userRepo,
		aspectRepository: aspectRepo,
		tokens:           tokens,
		firebaseAuth:     firebaseAuth,
		podHost:          podHost,
		trans:            trans,
		log:              log,
	}
}

// RegisterAuthRoutes registers the public authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterTokenRoutes registers routes that need an access token
func (h *AuthHandler) RegisterTokenRoutes(g *echo.Group) {
	g.POST("/auth/tokens", h.CreateToken)
	g.POST("/auth/signout", h.SignOut)
}

// TokenResponse is returned whenever an access token is issued
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusBadRequest, i18n.AuthInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return textError(c, h.trans, http.StatusConflict, i18n.AuthAccountExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username: strings.ToLower(req.Username),
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := h.createAccount(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return textError(c, h.trans, http.StatusConflict, i18n.AuthAccountExists)
		}
		h.log.Error("signup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return h.issue(c, http.StatusCreated, user.ID, auth.ScopeRead, auth.ScopeWrite)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusBadRequest, i18n.AuthInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil || user.Password == "" {
		return textError(c, h.trans, http.StatusUnauthorized, i18n.AuthBadLogin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return textError(c, h.trans, http.StatusUnauthorized, i18n.AuthBadLogin)
	}
	return h.issue(c, http.StatusOK, user.ID, auth.ScopeRead, auth.ScopeWrite)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues an access token,
// linking or creating the local account
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return textError(c, h.trans, http.StatusServiceUnavailable, i18n.AuthFirebaseUnavailable)
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusBadRequest, i18n.AuthInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return textError(c, h.trans, http.StatusUnauthorized, i18n.AuthBadLogin)
	}
	email, _ := token.Claims["email"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case err == nil:
	case !errors.Is(err, repositories.ErrNotFound):
		h.log.Error("firebase login lookup failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	case email == "":
		return textError(c, h.trans, http.StatusUnauthorized, i18n.AuthBadLogin)
	default:
		user, err = h.linkFirebaseAccount(ctx, token.UID, email)
		if err != nil {
			h.log.Error("firebase login failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError)
		}
	}
	return h.issue(c, http.StatusOK, user.ID, auth.ScopeRead, auth.ScopeWrite)
}

// linkFirebaseAccount attaches uid to the account with email, creating one
// when none exists.
func (h *AuthHandler) linkFirebaseAccount(ctx context.Context, uid, email string) (*models.User, error) {
	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		user.FirebaseUID = &uid
		return user, h.userRepository.UpdateUser(ctx, user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Username:    usernameFromEmail(email, uid),
		Email:       email,
		FirebaseUID: &uid,
	}
	return user, h.createAccount(ctx, user)
}

// CreateTokenRequest asks for a token limited to a subset of scopes
type CreateTokenRequest struct {
	Scopes []string `json:"scopes" validate:"required,min=1,dive,oneof=read write"`
}

// CreateToken mints a new token whose scopes are a subset of the caller's
func (h *AuthHandler) CreateToken(c echo.Context) error {
	var req CreateTokenRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusBadRequest, i18n.AuthInvalidRequest)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claims := middleware.Claims(c)
	for _, scope := range req.Scopes {
		if !auth.HasScope(claims, scope) {
			return echo.NewHTTPError(http.StatusForbidden, i18n.T(h.trans, i18n.AuthInsufficientScope))
		}
	}
	return h.issue(c, http.StatusCreated, claims.UserID, req.Scopes...)
}

// SignOut revokes the token used for the request
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.tokens.Revoke(c.Request().Context(), middleware.Claims(c)); err != nil {
		h.log.Error("failed to revoke token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) createAccount(ctx context.Context, user *models.User) error {
	person := &models.Person{DiasporaHandle: fmt.Sprintf("%s@%s", user.Username, h.podHost)}
	if err := h.userRepository.CreateUser(ctx, user, person); err != nil {
		return err
	}
	for _, name := range DefaultAspects {
		if err := h.aspectRepository.CreateAspect(ctx, &models.Aspect{UserID: user.ID, Name: name}); err != nil {
			h.log.Warn("failed to create default aspect", zap.String("aspect", name), zap.Error(err))
		}
	}
	return nil
}

func (h *AuthHandler) issue(c echo.Context, status int, userID uint, scopes ...string) error {
	signed, claims, err := h.tokens.Issue(userID, scopes...)
	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		Scope:       claims.Scope,
		ExpiresIn:   int64(time.Until(claims.ExpiresAt.Time).Seconds()),
	})
}

// usernameFromEmail derives an alphanumeric username from the local part of
// email, suffixed with the start of the Firebase uid to keep it unique.
func usernameFromEmail(email, uid string) string {
	local := strings.SplitN(email, "@", 2)[0]
	suffix := uid
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local + suffix) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
