package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/anonto42/social-pod/backend/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Upload is the file part of a photo upload.
type Upload struct {
	Filename    string
	ContentType string // as declared by the client, may be empty
	Data        []byte
}

// PhotoOptions are the non-file fields of a photo upload.
type PhotoOptions struct {
	Pending         bool
	SetProfilePhoto bool
	AspectIDs       string // "public", "all", "" or comma separated ids
}

// PhotoService implements photo visibility, upload and removal.
type PhotoService struct {
	photos    repositories.PhotoRepository
	aspects   repositories.AspectRepository
	people    repositories.PersonRepository
	storage   storage.Storage
	maxBytes  int64
	maxPixels int64
	log       *zap.Logger
}

func NewPhotoService(
	photos repositories.PhotoRepository,
	aspects repositories.AspectRepository,
	people repositories.PersonRepository,
	store storage.Storage,
	maxBytes int64,
	maxPixels int64,
	log *zap.Logger,
) *PhotoService {
	return &PhotoService{
		photos:    photos,
		aspects:   aspects,
		people:    people,
		storage:   store,
		maxBytes:  maxBytes,
		maxPixels: maxPixels,
		log:       log,
	}
}

// MaxBytes is the largest accepted upload.
func (s *PhotoService) MaxBytes() int64 {
	return s.maxBytes
}

// Get returns the photo when viewer may see it.
func (s *PhotoService) Get(ctx context.Context, viewer *models.User, guid string) (*models.Photo, error) {
	photo, err := s.photos.GetPhotoByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}

	ok, err := s.canView(ctx, viewer, photo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}

func (s *PhotoService) canView(ctx context.Context, viewer *models.User, photo *models.Photo) (bool, error) {
	if photo.AuthorID == viewer.PersonID || photo.Public {
		return true, nil
	}
	aspectIDs, err := s.photos.AspectIDs(ctx, photo.ID)
	if err != nil {
		return false, err
	}
	return s.aspects.IsMemberOfAny(ctx, viewer.PersonID, aspectIDs)
}

// List returns a page of the viewer's own photos, newest first.
func (s *PhotoService) List(ctx context.Context, viewer *models.User, page, perPage int) ([]models.Photo, int64, error) {
	return s.photos.ListByAuthor(ctx, viewer.PersonID, (page-1)*perPage, perPage)
}

// Create validates the upload, stores its renditions and records the photo.
func (s *PhotoService) Create(ctx context.Context, viewer *models.User, upload Upload, opts PhotoOptions) (*models.Photo, error) {
	if err := s.checkUpload(upload); err != nil {
		return nil, err
	}

	public := opts.SetProfilePhoto
	var aspectIDs []uint
	if !public {
		var err error
		public, aspectIDs, err = s.resolveAspects(ctx, viewer, opts.AspectIDs)
		if err != nil {
			return nil, err
		}
	}

	author, err := s.people.GetByID(ctx, viewer.PersonID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	width, height, renditions, err := storage.Renditions(upload.Data, storage.PhotoRenditions, s.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	photo := &models.Photo{
		GUID:        uuid.NewString(),
		AuthorID:    viewer.PersonID,
		Pending:     opts.Pending,
		Public:      public,
		Width:       width,
		Height:      height,
		ContentType: mimetype.Detect(upload.Data).String(),
	}

	keys := make([]string, 0, len(renditions))
	for _, r := range renditions {
		key := fmt.Sprintf("photos/%s/%s%s", photo.GUID, r.Name, r.Ext)
		url, err := s.storage.Put(ctx, key, r.ContentType, r.Data)
		if err != nil {
			s.cleanup(keys)
			return nil, fmt.Errorf("store %s: %w", r.Name, err)
		}
		keys = append(keys, key)
		setRenditionURL(photo, r.Name, url)
	}
	photo.StorageKeys = strings.Join(keys, " ")

	var profile *models.Profile
	if opts.SetProfilePhoto {
		updated := author.Profile
		updated.PersonID = author.ID
		updated.ImageURL = photo.URLThumbLarge
		updated.ImageURLMedium = photo.URLThumbMedium
		updated.ImageURLSmall = photo.URLThumbSmall
		profile = &updated
	}
	if err := s.photos.CreatePhoto(ctx, photo, aspectIDs, profile); err != nil {
		s.cleanup(keys)
		return nil, fmt.Errorf("create photo: %w", err)
	}
	if profile != nil {
		author.Profile = *profile
	}
	photo.Author = author

	s.log.Info("photo created",
		zap.String("guid", photo.GUID),
		zap.Uint("author_id", photo.AuthorID),
		zap.Bool("public", photo.Public),
		zap.Bool("profile_photo", opts.SetProfilePhoto),
	)
	return photo, nil
}

// Delete removes one of the viewer's photos and its stored renditions.
func (s *PhotoService) Delete(ctx context.Context, viewer *models.User, guid string) error {
	photo, err := s.photos.GetPhotoByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.AuthorID != viewer.PersonID {
		return ErrPhotoNotFound
	}

	if err := s.photos.DeletePhoto(ctx, photo); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	s.cleanup(strings.Fields(photo.StorageKeys))
	return nil
}

// AttachToPost marks the author's photos as belonging to postGUID.
func (s *PhotoService) AttachToPost(ctx context.Context, author *models.User, guids []string, postGUID string) error {
	n, err := s.photos.AttachToPost(ctx, author.PersonID, guids, postGUID)
	if err != nil {
		return err
	}
	if int(n) != len(guids) {
		s.log.Warn("some photos were not attached",
			zap.String("post", postGUID),
			zap.Int("requested", len(guids)),
			zap.Int64("attached", n),
		)
	}
	return nil
}

func (s *PhotoService) checkUpload(upload Upload) error {
	if len(upload.Data) == 0 {
		return fmt.Errorf("%w: no file", ErrInvalidImage)
	}
	if s.maxBytes > 0 && int64(len(upload.Data)) > s.maxBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidImage, s.maxBytes)
	}

	detected := mimetype.Detect(upload.Data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, detected.String())
	}

	declared := normalizeContentType(upload.ContentType)
	if declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
		return fmt.Errorf("%w: declared %s but got %s", ErrInvalidImage, declared, detected.String())
	}
	return nil
}

// resolveAspects maps the aspect_ids field to a visibility.
func (s *PhotoService) resolveAspects(ctx context.Context, viewer *models.User, raw string) (bool, []uint, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "public":
		return true, nil, nil
	case "", "all":
		ids, err := s.aspects.AspectIDs(ctx, viewer.ID)
		return false, ids, err
	}

	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return false, nil, fmt.Errorf("%w: %q", ErrInvalidAspect, part)
		}
		if _, err := s.aspects.GetAspect(ctx, viewer.ID, uint(id)); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil, fmt.Errorf("%w: %d", ErrInvalidAspect, id)
			}
			return false, nil, err
		}
		ids = append(ids, uint(id))
	}
	return false, ids, nil
}

func (s *PhotoService) cleanup(keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.storage.Delete(context.Background(), keys...); err != nil {
		s.log.Error("failed to delete stored photo objects", zap.Strings("keys", keys), zap.Error(err))
	}
}

func setRenditionURL(photo *models.Photo, name, url string) {
	switch name {
	case models.SizeThumbSmall:
		photo.URLThumbSmall = url
	case models.SizeThumbMedium:
		photo.URLThumbMedium = url
	case models.SizeThumbLarge:
		photo.URLThumbLarge = url
	case models.SizeScaledFull:
		photo.URLScaledFull = url
	}
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	if ct == "image/jpg" || ct == "image/pjpeg" {
		return "image/jpeg"
	}
	return ct
}
