package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByGUID(ctx context.Context, guid string) (*models.Comment, error)
	GetCommentsByPost(ctx context.Context, postGUID string) ([]models.Comment, error)
	CommenterIDs(ctx context.Context, postGUID string) ([]uint, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByGUID retrieves a comment with its author
func (r *PostgresCommentRepository) GetCommentByGUID(ctx context.Context, guid string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author.Profile").Where("guid = ?", guid).First(&comment).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// GetCommentsByPost retrieves the comments of a post, oldest first
func (r *PostgresCommentRepository) GetCommentsByPost(ctx context.Context, postGUID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author.Profile").
		Where("post_guid = ?", postGUID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CommenterIDs returns the distinct person IDs that commented on a post
func (r *PostgresCommentRepository) CommenterIDs(ctx context.Context, postGUID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_guid = ?", postGUID).
		Distinct().
		Pluck("author_id", &ids).Error
	return ids, err
}
