package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"
	"testing"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingStorage keeps objects in a map.
type recordingStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{objects: map[string][]byte{}}
}

func (s *recordingStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut && len(s.objects) > 0 {
		return "", context.DeadlineExceeded
	}
	s.objects[key] = data
	return "https://cdn.example/" + key, nil
}

func (s *recordingStorage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

func (s *recordingStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fixture struct {
	store         *memory.Store
	storage       *recordingStorage
	photos        *PhotoService
	notifications *NotificationService
	posts         *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	st := newRecordingStorage()
	log := zap.NewNop()

	notifications := NewNotificationService(store.Notifications(), store.Users(), store.People(), store.Posts(), log)
	return &fixture{
		store:         store,
		storage:       st,
		photos:        NewPhotoService(store.Photos(), store.Aspects(), store.People(), st, 1<<20, 0, log),
		notifications: notifications,
		posts: NewPostService(store.Posts(), store.Likes(), store.Comments(), store.CommentLikes(), store.Aspects(),
			store.People(), store.Photos(), notifications, log),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@pod.example"}
	p := &models.Person{DiasporaHandle: name + "@pod.example", Profile: models.Profile{FirstName: name}}
	require.NoError(t, f.store.Users().CreateUser(context.Background(), u, p))
	return u
}

// share puts other into one of owner's aspects and returns the aspect.
func (f *fixture) share(t *testing.T, owner, other *models.User, name string) *models.Aspect {
	t.Helper()
	ctx := context.Background()
	aspect := &models.Aspect{UserID: owner.ID, Name: name}
	require.NoError(t, f.store.Aspects().CreateAspect(ctx, aspect))
	if other != nil {
		_, err := f.store.Aspects().AddMember(ctx, aspect.ID, other.PersonID)
		require.NoError(t, err)
	}
	return aspect
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
