package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/repositories/memory"
	"github.com/anonto42/social-pod/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signup(t *testing.T, api *testAPI, username string) TokenResponse {
	t.Helper()
	rec := api.json(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@mail.example",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[TokenResponse](t, rec)
}

func TestSignup(t *testing.T) {
	api := newTestAPI(t)
	tok := signup(t, api, "Dana")
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, "read write", tok.Scope)
	assert.Positive(t, tok.ExpiresIn)

	rec := api.do(http.MethodGet, "/api/v1/user", tok.AccessToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dana@"+testPodHost, decode[presenters.ProfileJSON](t, rec).DiasporaID)

	rec = api.do(http.MethodGet, "/api/v1/aspects", tok.AccessToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	for _, a := range decode[[]models.Aspect](t, rec) {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, DefaultAspects, names)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "other", "email": "Dana@mail.example", "password": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "x", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSignIn(t *testing.T) {
	api := newTestAPI(t)
	signup(t, api, "dana")

	rec := api.json(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email": "dana@mail.example", "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[TokenResponse](t, rec).AccessToken)

	for name, body := range map[string]map[string]string{
		"wrong password": {"email": "dana@mail.example", "password": "battery staple"},
		"unknown email":  {"email": "nobody@mail.example", "password": "correct horse"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.json(t, http.MethodPost, "/api/v1/auth/signin", "", body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid email or password", rec.Body.String())
		})
	}
}

func TestCreateScopedToken(t *testing.T) {
	api := newTestAPI(t)
	full := signup(t, api, "dana").AccessToken

	rec := api.json(t, http.MethodPost, "/api/v1/auth/tokens", full, map[string][]string{"scopes": {"read"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	readOnly := decode[TokenResponse](t, rec)
	assert.Equal(t, "read", readOnly.Scope)

	body, ct := multipartBody(t, nil, &upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 10, 10)})
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/v1/photos", readOnly.AccessToken, body, ct).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/photos", readOnly.AccessToken, nil, "").Code)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/tokens", readOnly.AccessToken, map[string][]string{"scopes": {"read", "write"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/tokens", full, map[string][]string{"scopes": {"admin"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSignOutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	tok := signup(t, api, "dana").AccessToken

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/v1/auth/signout", tok, nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/user", tok, nil, "").Code)
}

func TestFirebaseLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.json(t, http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "good-id-token"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[TokenResponse](t, rec)

	user, err := api.store.Users().GetUserByFirebaseUID(context.Background(), "fb-carol")
	require.NoError(t, err)
	assert.Equal(t, "carol@mail.example", user.Email)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "good-id-token"})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[TokenResponse](t, rec)
	for _, tok := range []string{first.AccessToken, second.AccessToken} {
		claims, err := api.tokens.Verify(context.Background(), tok)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	}

	rec = api.json(t, http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = api.json(t, http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "no-email"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFirebaseLoginLinksExistingAccount(t *testing.T) {
	api := newTestAPI(t)
	rec := api.json(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "carol", "email": "carol@mail.example", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.json(t, http.MethodPost, "/api/v1/auth/firebase-login", "", map[string]string{"idToken": "good-id-token"})
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := api.store.Users().GetUserByFirebaseUID(context.Background(), "fb-carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)
}

func TestFirebaseLoginDisabled(t *testing.T) {
	trans, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	store := memory.NewStore()
	h := NewAuthHandler(store.Users(), store.Aspects(), nil, nil, testPodHost, trans, zap.NewNop())

	e := echo.New()
	e.Validator = validators.NewValidator()
	h.RegisterAuthRoutes(e.Group("/auth"))

	req := httptest.NewRequest(http.MethodPost, "/auth/firebase-login", strings.NewReader(`{"idToken":"good-id-token"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Firebase sign-in is not configured", rec.Body.String())
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "carolfbcar", usernameFromEmail("Carol@mail.example", "fb-carol"))
	assert.Equal(t, "abc123", usernameFromEmail("a.b@c", "C-123"))
	assert.Equal(t, "user", usernameFromEmail("...@c", "--"))
}

func TestUpdateProfile(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")

	rec := api.json(t, http.MethodPatch, "/api/v1/user", api.token(t, alice), map[string]string{"first_name": " Alice ", "last_name": "Liddell"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[presenters.ProfileJSON](t, rec)
	assert.Equal(t, "Alice", profile.FirstName)
	assert.Equal(t, "Liddell", profile.LastName)
	assert.Equal(t, "Alice Liddell", profile.Name)

	rec = api.do(http.MethodGet, "/api/v1/user", api.token(t, alice), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Liddell", decode[presenters.ProfileJSON](t, rec).LastName)

	long := make([]byte, 40)
	for i := range long {
		long[i] = 'a'
	}
	rec = api.json(t, http.MethodPatch, "/api/v1/user", api.token(t, alice), map[string]string{"first_name": string(long)})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"social-pod"}`, rec.Body.String())
}
