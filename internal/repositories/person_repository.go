package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// PersonRepository defines the interface for person and profile operations
type PersonRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Person, error)
	GetByGUID(ctx context.Context, guid string) (*models.Person, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Person, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

type postgresPersonRepository struct {
	db *gorm.DB
}

func NewPostgresPersonRepository(db *gorm.DB) PersonRepository {
	return &postgresPersonRepository{db: db}
}

func (r *postgresPersonRepository) GetByID(ctx context.Context, id uint) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Preload("Profile").First(&person, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &person, nil
}

func (r *postgresPersonRepository) GetByGUID(ctx context.Context, guid string) (*models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Preload("Profile").Where("guid = ?", guid).First(&person).Error; err != nil {
		return nil, notFound(err)
	}
	return &person, nil
}

func (r *postgresPersonRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Person, error) {
	people := make(map[uint]models.Person, len(ids))
	if len(ids) == 0 {
		return people, nil
	}
	var rows []models.Person
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		people[p.ID] = p
	}
	return people, nil
}

// UpdateProfile upserts the profile row of a person.
func (r *postgresPersonRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
