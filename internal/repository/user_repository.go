package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authbase/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts a new user. A racing insert with the same email
	// returns gorm.ErrDuplicatedKey from the unique index.
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns the full record including the password hash,
	// which only the credential verification step may read.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID returns the record without the password hash column.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "email", "is_admin", "is_verified", "created_at", "updated_at").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
