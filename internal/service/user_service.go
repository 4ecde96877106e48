package service

import (
	"errors"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// UserUpdate carries optional profile fields; nil means leave unchanged.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Role     *model.UserRole
}

func (s *UserService) Create(user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Create(user)
}

func (s *UserService) List() ([]model.User, error) {
	return s.UserRepo.FindAll()
}

func (s *UserService) ListInstructors() ([]model.User, error) {
	return s.UserRepo.FindByRole(model.Instructor)
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// Update re-checks email/username uniqueness when they change; an admin may
// also change the role.
func (s *UserService) Update(id uint, update UserUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if update.Email != nil {
		email := model.NormalizeEmail(*update.Email)
		if email != user.Email {
			if _, err := s.UserRepo.FindByEmail(email); err == nil {
				return nil, util.ErrEmailRegistered
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}

	if update.Username != nil && *update.Username != user.Username {
		if _, err := s.UserRepo.FindByUsername(*update.Username); err == nil {
			return nil, util.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *update.Username
	}

	if update.Role != nil && model.IsValidRole(*update.Role) {
		user.Role = *update.Role
	}

	if update.Password != nil && *update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	if _, err := s.UserRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.Delete(id)
}
