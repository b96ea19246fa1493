package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, postGUID string, authorID uint) error
	HasLiked(ctx context.Context, postGUID string, authorID uint) (bool, error)
	CountByPost(ctx context.Context, postGUID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return duplicate(r.db.WithContext(ctx).Create(like).Error)
}

// DeleteLike removes the like a person left on a post
func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, postGUID string, authorID uint) error {
	res := r.db.WithContext(ctx).Where("post_guid = ? AND author_id = ?", postGUID, authorID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasLiked checks if a person has liked a specific post
func (r *PostgresLikeRepository) HasLiked(ctx context.Context, postGUID string, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_guid = ? AND author_id = ?", postGUID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresLikeRepository) CountByPost(ctx context.Context, postGUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_guid = ?", postGUID).Count(&count).Error
	return count, err
}
