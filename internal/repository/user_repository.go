package repository

import (
	"context"

	"github.com/ekant1999/StrategyEvolve/internal/model"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string, opts ...utils.DBOption) (*model.User, error)
	GetByEmail(ctx context.Context, email string, opts ...utils.DBOption) (*model.User, error)
	Create(ctx context.Context, user *model.User, opts ...utils.DBOption) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(user).Error
}
