package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys set by AccessToken.
const (
	ClaimsKey = "access_token_claims"
	UserKey   = "current_user"
)

// AccessToken authenticates the request from a bearer token, or an
// access_token query or form parameter, and loads the current user.
func AccessToken(tokens *auth.Tokens, users repositories.UserRepository, trans ut.Translator, log *zap.Logger) echo.MiddlewareFunc {
	unauthorized := func() error {
		return echo.NewHTTPError(http.StatusUnauthorized, i18n.T(trans, i18n.AuthInvalidCredentials))
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return unauthorized()
			}

			ctx := c.Request().Context()
			claims, err := tokens.Verify(ctx, raw)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrRevokedToken) {
					log.Error("access token verification failed", zap.Error(err))
					return echo.NewHTTPError(http.StatusInternalServerError)
				}
				return unauthorized()
			}

			user, err := users.GetUserByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return unauthorized()
				}
				log.Error("failed to load token owner", zap.Uint("user_id", claims.UserID), zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError)
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// RequireScope rejects requests whose token lacks scope with 403.
func RequireScope(scope string, trans ut.Translator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil || !auth.HasScope(claims, scope) {
				return echo.NewHTTPError(http.StatusForbidden, i18n.T(trans, i18n.AuthInsufficientScope))
			}
			return next(c)
		}
	}
}

// Claims returns the verified token claims of the request.
func Claims(c echo.Context) *models.AccessTokenClaims {
	claims, _ := c.Get(ClaimsKey).(*models.AccessTokenClaims)
	return claims
}

// CurrentUser returns the authenticated user of the request.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserKey).(*models.User)
	return user
}

func tokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if token := c.QueryParam("access_token"); token != "" {
		return token
	}
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return c.FormValue("access_token")
	}
	return ""
}
