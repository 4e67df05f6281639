package mysql

import (
	"context"
	"errors"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// UpsertGoogle finds or creates the user for a Google identity. First login
// creates the account; later logins keep the stored role in sync with the
// admin list decision made by the caller.
func (r *UserRepository) UpsertGoogle(ctx context.Context, name, email, googleID, role string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = model.User{
			Name:     name,
			Email:    email,
			Provider: model.ProviderGoogle,
			GoogleID: googleID,
			Role:     role,
			Status:   model.UserActive,
		}
		if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if user.GoogleID == "" {
		updates["google_id"] = googleID
	}
	if role == model.RoleAdmin && user.Role != model.RoleAdmin {
		updates["role"] = model.RoleAdmin
	}
	if len(updates) > 0 {
		if err := r.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		if user.GoogleID == "" {
			user.GoogleID = googleID
		}
		if role == model.RoleAdmin {
			user.Role = model.RoleAdmin
		}
	}
	return &user, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// SetStatus flips the account between ACTIVE and SUSPENDED.
func (r *UserRepository) SetStatus(ctx context.Context, id uint64, status string) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
