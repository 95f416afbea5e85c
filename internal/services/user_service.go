package services

import (
	"context"

	"seo_content_automation_backend/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (us *UserService) CreateOrUpdateUser(ctx context.Context, auth0ID, email, name, nickname string) (*models.User, error) {
	user := models.User{
		Auth0ID:  auth0ID,
		Email:    email,
		Name:     name,
		Nickname: nickname,
	}
	result := us.db.WithContext(ctx).Where(models.User{Auth0ID: auth0ID}).FirstOrCreate(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (us *UserService) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*models.User, error) {
	var user models.User
	result := us.db.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
