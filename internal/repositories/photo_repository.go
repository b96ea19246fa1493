package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo *models.Photo, aspectIDs []uint, profile *models.Profile) error
	GetPhotoByGUID(ctx context.Context, guid string) (*models.Photo, error)
	GetPhotosByGUIDs(ctx context.Context, guids []string) ([]models.Photo, error)
	ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Photo, int64, error)
	AspectIDs(ctx context.Context, photoID uint) ([]uint, error)
	AttachToPost(ctx context.Context, authorID uint, guids []string, postGUID string) (int64, error)
	DeletePhoto(ctx context.Context, photo *models.Photo) error
}

// PostgresPhotoRepository implements PhotoRepository for PostgreSQL
type PostgresPhotoRepository struct {
	db *gorm.DB
}

// NewPostgresPhotoRepository creates a new PostgresPhotoRepository
func NewPostgresPhotoRepository(db *gorm.DB) *PostgresPhotoRepository {
	return &PostgresPhotoRepository{db: db}
}

// CreatePhoto stores the photo and the aspects it is shared with. A non-nil
// profile is saved in the same transaction.
func (r *PostgresPhotoRepository) CreatePhoto(ctx context.Context, photo *models.Photo, aspectIDs []uint, profile *models.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author").Create(photo).Error; err != nil {
			return err
		}
		if len(aspectIDs) > 0 {
			rows := make([]models.PhotoAspect, len(aspectIDs))
			for i, id := range aspectIDs {
				rows[i] = models.PhotoAspect{PhotoID: photo.ID, AspectID: id}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if profile != nil {
			return tx.Save(profile).Error
		}
		return nil
	})
}

// GetPhotoByGUID retrieves a photo with its author and profile loaded
func (r *PostgresPhotoRepository) GetPhotoByGUID(ctx context.Context, guid string) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).Preload("Author.Profile").Where("guid = ?", guid).First(&photo).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &photo, nil
}

func (r *PostgresPhotoRepository) GetPhotosByGUIDs(ctx context.Context, guids []string) ([]models.Photo, error) {
	var photos []models.Photo
	if len(guids) == 0 {
		return photos, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Author.Profile").
		Where("guid IN ?", guids).
		Order("id ASC").
		Find(&photos).Error
	return photos, err
}

// ListByAuthor returns a page of a person's photos, newest first, and the total
func (r *PostgresPhotoRepository) ListByAuthor(ctx context.Context, authorID uint, offset, limit int) ([]models.Photo, int64, error) {
	var photos []models.Photo
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Photo{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Author.Profile").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&photos).Error
	return photos, total, err
}

func (r *PostgresPhotoRepository) AspectIDs(ctx context.Context, photoID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.PhotoAspect{}).Where("photo_id = ?", photoID).Pluck("aspect_id", &ids).Error
	return ids, err
}

// AttachToPost links the author's listed photos to a post and publishes them
func (r *PostgresPhotoRepository) AttachToPost(ctx context.Context, authorID uint, guids []string, postGUID string) (int64, error) {
	if len(guids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("author_id = ? AND guid IN ?", authorID, guids).
		Updates(map[string]interface{}{"status_message_guid": postGUID, "pending": false})
	return res.RowsAffected, res.Error
}

func (r *PostgresPhotoRepository) DeletePhoto(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photo.ID).Delete(&models.PhotoAspect{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Photo{}, photo.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
