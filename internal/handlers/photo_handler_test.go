package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/anonto42/social-pod/backend/internal/auth"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	photoNotFoundText     = "Photo with provided guid could not be found"
	photoFailedCreateText = "Failed to create the photo"
)

// uploadPhoto posts a small PNG as u and returns the created photo.
func (a *testAPI) uploadPhoto(t *testing.T, u *models.User, fields map[string]string) presenters.PhotoJSON {
	t.Helper()
	body, ct := multipartBody(t, fields, &upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 120, 80)})
	rec := a.do(http.MethodPost, "/api/v1/photos", a.token(t, u), body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[presenters.PhotoJSON](t, rec)
}

// pngHeaderOnly returns a PNG that declares w x h pixels but carries no pixel data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8], ihdr[9] = 8, 2
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestShowPhoto(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")
	bob := api.user(t, "bob")

	own := api.uploadPhoto(t, alice, nil)
	public := api.uploadPhoto(t, bob, map[string]string{"aspect_ids": "public"})
	private := api.uploadPhoto(t, bob, nil)

	t.Run("own photo", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/photos/"+own.GUID, api.token(t, alice), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[presenters.PhotoJSON](t, rec)
		assert.Equal(t, own.GUID, got.GUID)
		assert.Equal(t, 120, got.Dimensions.Width)
		assert.Equal(t, 80, got.Dimensions.Height)
		assert.NotEmpty(t, got.Sizes.Small)
		assert.NotEmpty(t, got.Sizes.Medium)
		assert.NotEmpty(t, got.Sizes.Large)
		assert.Equal(t, "alice@"+testPodHost, got.Author.DiasporaID)
		assert.Nil(t, got.Post)
	})

	t.Run("public photo of another user", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/photos/"+public.GUID, api.token(t, alice), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, public.GUID, decode[presenters.PhotoJSON](t, rec).GUID)
	})

	t.Run("private photo of another user", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/photos/"+private.GUID, api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, photoNotFoundText, rec.Body.String())
	})

	t.Run("unknown guid", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/photos/999_999_999", api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, photoNotFoundText, rec.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/photos/"+own.GUID, "999_999_999", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestShowPhotoSharedThroughAspect(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")
	bob := api.user(t, "bob")
	ctx := context.Background()

	friends := &models.Aspect{UserID: bob.ID, Name: "Friends"}
	require.NoError(t, api.store.Aspects().CreateAspect(ctx, friends))
	_, err := api.store.Aspects().AddMember(ctx, friends.ID, alice.PersonID)
	require.NoError(t, err)
	work := &models.Aspect{UserID: bob.ID, Name: "Work"}
	require.NoError(t, api.store.Aspects().CreateAspect(ctx, work))

	shared := api.uploadPhoto(t, bob, map[string]string{"aspect_ids": strconv.FormatUint(uint64(friends.ID), 10)})
	hidden := api.uploadPhoto(t, bob, map[string]string{"aspect_ids": strconv.FormatUint(uint64(work.ID), 10)})

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/photos/"+shared.GUID, api.token(t, alice), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/photos/"+hidden.GUID, api.token(t, alice), nil, "").Code)
}

func TestListPhotos(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")
	bob := api.user(t, "bob")

	api.uploadPhoto(t, alice, nil)
	api.uploadPhoto(t, alice, map[string]string{"aspect_ids": "public"})
	api.uploadPhoto(t, bob, map[string]string{"aspect_ids": "public"})

	rec := api.do(http.MethodGet, "/api/v1/photos", api.token(t, alice), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Data []presenters.PhotoJSON `json:"data"`
		Meta PageMeta               `json:"meta"`
	}](t, rec)
	assert.Len(t, body.Data, 2)
	assert.Equal(t, int64(2), body.Meta.Total)
	for _, p := range body.Data {
		assert.Equal(t, "alice@"+testPodHost, p.Author.DiasporaID)
	}

	rec = api.do(http.MethodGet, "/api/v1/photos?per_page=1&page=2", api.token(t, alice), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page":2`)

	rec = api.do(http.MethodGet, "/api/v1/photos", "999_999_999", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePhoto(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")
	ctx := context.Background()

	t.Run("defaults to published", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, nil)
		stored, err := api.store.Photos().GetPhotoByGUID(ctx, photo.GUID)
		require.NoError(t, err)
		assert.False(t, stored.Pending)
		assert.False(t, stored.Public)
	})

	t.Run("pending", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, map[string]string{"pending": "true"})
		stored, err := api.store.Photos().GetPhotoByGUID(ctx, photo.GUID)
		require.NoError(t, err)
		assert.True(t, stored.Pending)
	})

	t.Run("set profile photo", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, map[string]string{"set_profile_photo": "true"})
		person, err := api.store.People().GetByID(ctx, alice.PersonID)
		require.NoError(t, err)
		assert.Equal(t, photo.Sizes.Small, person.Profile.ImageURLSmall)

		rec := api.do(http.MethodGet, "/api/v1/user", api.token(t, alice), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		profile := decode[presenters.ProfileJSON](t, rec)
		assert.Equal(t, photo.Sizes.Small, profile.Avatars.Small)
	})

	cases := map[string]*upload{
		"no image":  nil,
		"non image": {filename: "notes.txt", contentType: "text/plain", data: []byte("just some text, not a picture")},
		"mismatched content type": {
			filename: "green.jpg", contentType: "image/jpeg", data: pngBytes(t, 10, 10),
		},
		"text declared as png": {
			filename: "notes.png", contentType: "image/png", data: []byte("just some text, not a picture"),
		},
		"oversized canvas": {
			filename: "huge.png", contentType: "image/png", data: pngHeaderOnly(16000, 16000),
		},
	}
	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			body, ct := multipartBody(t, nil, file)
			rec := api.do(http.MethodPost, "/api/v1/photos", api.token(t, alice), body, ct)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, photoFailedCreateText, rec.Body.String())
		})
	}

	t.Run("malformed flag", func(t *testing.T) {
		for _, field := range []string{"pending", "set_profile_photo"} {
			body, ct := multipartBody(t, map[string]string{field: "maybe"},
				&upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 10, 10)})
			rec := api.do(http.MethodPost, "/api/v1/photos", api.token(t, alice), body, ct)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, field)
			assert.Equal(t, photoFailedCreateText, rec.Body.String(), field)
		}
	})

	t.Run("unknown aspect", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"aspect_ids": "4242"},
			&upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 10, 10)})
		rec := api.do(http.MethodPost, "/api/v1/photos", api.token(t, alice), body, ct)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		body, ct := multipartBody(t, nil, &upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 10, 10)})
		rec := api.do(http.MethodPost, "/api/v1/photos", "999_999_999", body, ct)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("read only token", func(t *testing.T) {
		body, ct := multipartBody(t, nil, &upload{filename: "green.png", contentType: "image/png", data: pngBytes(t, 10, 10)})
		rec := api.do(http.MethodPost, "/api/v1/photos", api.token(t, alice, auth.ScopeRead), body, ct)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCreatePhotoStoresRenditions(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")

	photo := api.uploadPhoto(t, alice, nil)
	assert.True(t, strings.HasPrefix(photo.Sizes.Small, "https://cdn.example/"))
	assert.NotEqual(t, photo.Sizes.Small, photo.Sizes.Large)
	assert.NotEmpty(t, api.storage.objects)
}

func TestDeletePhoto(t *testing.T) {
	api := newTestAPI(t)
	alice := api.user(t, "alice")
	bob := api.user(t, "bob")

	t.Run("own photo", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, nil)
		rec := api.do(http.MethodDelete, "/api/v1/photos/"+photo.GUID, api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = api.do(http.MethodGet, "/api/v1/photos/"+photo.GUID, api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("photo of another user", func(t *testing.T) {
		photo := api.uploadPhoto(t, bob, map[string]string{"aspect_ids": "public"})
		rec := api.do(http.MethodDelete, "/api/v1/photos/"+photo.GUID, api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, photoNotFoundText, rec.Body.String())

		rec = api.do(http.MethodGet, "/api/v1/photos/"+photo.GUID, api.token(t, bob), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown guid", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/api/v1/photos/999_999_999", api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, nil)
		rec := api.do(http.MethodDelete, "/api/v1/photos/"+photo.GUID, "999_999_999", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("read only token leaves the photo intact", func(t *testing.T) {
		photo := api.uploadPhoto(t, alice, nil)
		rec := api.do(http.MethodDelete, "/api/v1/photos/"+photo.GUID, api.token(t, alice, auth.ScopeRead), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(http.MethodGet, "/api/v1/photos/"+photo.GUID, api.token(t, alice), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
