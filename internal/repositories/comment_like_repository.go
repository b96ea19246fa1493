package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	CreateCommentLike(ctx context.Context, like *models.CommentLike) error
	DeleteCommentLike(ctx context.Context, commentID, authorID uint) error
	CountByComment(ctx context.Context, commentID uint) (int64, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

// CreateCommentLike returns ErrDuplicate when the person already likes the comment
func (r *postgresCommentLikeRepository) CreateCommentLike(ctx context.Context, like *models.CommentLike) error {
	return duplicate(r.db.WithContext(ctx).Create(like).Error)
}

func (r *postgresCommentLikeRepository) DeleteCommentLike(ctx context.Context, commentID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("comment_id = ? AND author_id = ?", commentID, authorID).
		Delete(&models.CommentLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresCommentLikeRepository) CountByComment(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
