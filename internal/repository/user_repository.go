package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// Delete removes the row for real so the unique username/email slots free up
// and the account can be registered again.
func (r *UserRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.User{}, id).Error
}
