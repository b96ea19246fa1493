package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories/memory"
	"github.com/anonto42/social-pod/backend/internal/services"
	"github.com/anonto42/social-pod/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPodHost = "pod.example"

// memoryStorage keeps uploaded objects in a map.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "https://cdn.example/" + key, nil
}

func (s *memoryStorage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

// fakeVerifier accepts the ID tokens it knows about.
type fakeVerifier map[string]*firebaseauth.Token

func (v fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error) {
	if tok, ok := v[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid id token")
}

type testAPI struct {
	e             *echo.Echo
	store         *memory.Store
	storage       *memoryStorage
	tokens        *auth.Tokens
	notifications *services.NotificationService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	trans, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	log := zap.NewNop()

	store := memory.NewStore()
	st := &memoryStorage{objects: map[string][]byte{}}
	tokens := auth.NewTokens("test-secret", time.Hour, auth.NewRedisBlacklist(client))

	notificationService := services.NewNotificationService(store.Notifications(), store.Users(), store.People(), store.Posts(), log)
	photoService := services.NewPhotoService(store.Photos(), store.Aspects(), store.People(), st, 1<<20, 0, log)
	postService := services.NewPostService(store.Posts(), store.Likes(), store.Comments(), store.CommentLikes(), store.Aspects(),
		store.People(), store.Photos(), notificationService, log)

	firebase := fakeVerifier{
		"good-id-token": {UID: "fb-carol", Claims: map[string]interface{}{"email": "carol@mail.example"}},
		"no-email":      {UID: "fb-anon", Claims: map[string]interface{}{}},
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.GET("/health", HealthCheck)

	authHandler := NewAuthHandler(store.Users(), store.Aspects(), tokens, firebase, testPodHost, trans, log)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))

	api := e.Group("/api/v1", middleware.AccessToken(tokens, store.Users(), trans, log))
	write := middleware.RequireScope(auth.ScopeWrite, trans)
	authHandler.RegisterTokenRoutes(api)
	NewUserHandler(store.People(), trans, log).RegisterProfileRoutes(api, write)
	NewPhotoHandler(photoService, trans, log).RegisterPhotoRoutes(api, write)
	NewPostHandler(postService, trans, log).RegisterPostRoutes(api, write)
	NewLikeHandler(postService, trans, log).RegisterLikeRoutes(api, write)
	NewCommentHandler(postService, trans, log).RegisterCommentRoutes(api, write)
	NewFeedHandler(postService, trans, log).RegisterFeedRoutes(api)
	NewAspectHandler(store.Aspects(), store.People(), notificationService, trans, log).RegisterAspectRoutes(api, write)
	NewNotificationHandler(notificationService, trans, log).RegisterNotificationRoutes(api, write)

	return &testAPI{e: e, store: store, storage: st, tokens: tokens, notifications: notificationService}
}

func (a *testAPI) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@mail.example"}
	p := &models.Person{DiasporaHandle: name + "@" + testPodHost, Profile: models.Profile{FirstName: name}}
	require.NoError(t, a.store.Users().CreateUser(context.Background(), u, p))
	return u
}

func (a *testAPI) token(t *testing.T, u *models.User, scopes ...string) string {
	t.Helper()
	if len(scopes) == 0 {
		scopes = []string{auth.ScopeRead, auth.ScopeWrite}
	}
	signed, _, err := a.tokens.Issue(u.ID, scopes...)
	require.NoError(t, err)
	return signed
}

func (a *testAPI) do(method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) json(t *testing.T, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return a.do(method, target, token, body, echo.MIMEApplicationJSON)
}

// upload is a file part of a multipart request.
type upload struct {
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, file.filename))
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
