package repositories

import (
	"context"

	"github.com/anonto42/social-pod/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, person *models.Person) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUserByPersonID(ctx context.Context, personID uint) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser stores the account together with its person and empty profile.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User, person *models.Person) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(person).Error; err != nil {
			return err
		}
		user.PersonID = person.ID
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		person.OwnerID = &user.ID
		if err := tx.Model(person).Update("owner_id", user.ID).Error; err != nil {
			return err
		}
		user.Person = person
		return nil
	})
	return duplicate(err)
}

func (r *PostgresUserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Person.Profile").
		Where(query, args...).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID with person and profile loaded
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.first(ctx, "firebase_uid = ?", firebaseUID)
}

// GetUserByPersonID retrieves the local account owning a person
func (r *PostgresUserRepository) GetUserByPersonID(ctx context.Context, personID uint) (*models.User, error) {
	return r.first(ctx, "person_id = ?", personID)
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Person").Save(user).Error
}
