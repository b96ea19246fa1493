package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AspectRepository defines the interface for aspect and contact operations
type AspectRepository interface {
	CreateAspect(ctx context.Context, aspect *models.Aspect) error
	GetAspect(ctx context.Context, userID, aspectID uint) (*models.Aspect, error)
	ListAspects(ctx context.Context, userID uint) ([]models.Aspect, error)
	AspectIDs(ctx context.Context, userID uint) ([]uint, error)
	AddMember(ctx context.Context, aspectID, personID uint) (created bool, err error)
	RemoveMember(ctx context.Context, aspectID, personID uint) error
	ListMembers(ctx context.Context, aspectID uint) ([]models.Person, error)
	IsMemberOfAny(ctx context.Context, personID uint, aspectIDs []uint) (bool, error)
	SharesWith(ctx context.Context, userID, personID uint) (bool, error)
	MemberAspectIDs(ctx context.Context, userID, personID uint) ([]uint, error)
}

// PostgresAspectRepository implements AspectRepository for PostgreSQL
type PostgresAspectRepository struct {
	db *gorm.DB
}

// NewPostgresAspectRepository creates a new PostgresAspectRepository
func NewPostgresAspectRepository(db *gorm.DB) *PostgresAspectRepository {
	return &PostgresAspectRepository{db: db}
}

func (r *PostgresAspectRepository) CreateAspect(ctx context.Context, aspect *models.Aspect) error {
	return duplicate(r.db.WithContext(ctx).Create(aspect).Error)
}

func (r *PostgresAspectRepository) GetAspect(ctx context.Context, userID, aspectID uint) (*models.Aspect, error) {
	var aspect models.Aspect
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", aspectID, userID).First(&aspect).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &aspect, nil
}

func (r *PostgresAspectRepository) ListAspects(ctx context.Context, userID uint) ([]models.Aspect, error) {
	var aspects []models.Aspect
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&aspects).Error
	return aspects, err
}

func (r *PostgresAspectRepository) AspectIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Aspect{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

// AddMember puts a person into an aspect; created is false when already there.
func (r *PostgresAspectRepository) AddMember(ctx context.Context, aspectID, personID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AspectMembership{AspectID: aspectID, PersonID: personID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresAspectRepository) RemoveMember(ctx context.Context, aspectID, personID uint) error {
	res := r.db.WithContext(ctx).
		Where("aspect_id = ? AND person_id = ?", aspectID, personID).
		Delete(&models.AspectMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAspectRepository) ListMembers(ctx context.Context, aspectID uint) ([]models.Person, error) {
	var people []models.Person
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id IN (?)",
			r.db.Model(&models.AspectMembership{}).Select("person_id").Where("aspect_id = ?", aspectID),
		).
		Find(&people).Error
	return people, err
}

// IsMemberOfAny reports whether the person is a contact in any of the aspects.
func (r *PostgresAspectRepository) IsMemberOfAny(ctx context.Context, personID uint, aspectIDs []uint) (bool, error) {
	if len(aspectIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AspectMembership{}).
		Where("person_id = ? AND aspect_id IN ?", personID, aspectIDs).
		Count(&count).Error
	return count > 0, err
}

// SharesWith reports whether the user has the person in at least one aspect.
func (r *PostgresAspectRepository) SharesWith(ctx context.Context, userID, personID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AspectMembership{}).
		Joins("JOIN aspects ON aspects.id = aspect_memberships.aspect_id").
		Where("aspects.user_id = ? AND aspect_memberships.person_id = ?", userID, personID).
		Count(&count).Error
	return count > 0, err
}

// MemberAspectIDs returns the ids of the user's aspects the person is in.
func (r *PostgresAspectRepository) MemberAspectIDs(ctx context.Context, userID, personID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.AspectMembership{}).
		Joins("JOIN aspects ON aspects.id = aspect_memberships.aspect_id").
		Where("aspects.user_id = ? AND aspect_memberships.person_id = ?", userID, personID).
		Pluck("aspect_memberships.aspect_id", &ids).Error
	return ids, err
}
