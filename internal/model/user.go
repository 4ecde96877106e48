package model

import "strings"

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

func IsValidRole(role UserRole) bool {
	switch role {
	case Student, Instructor, Admin:
		return true
	}
	return false
}

type User struct {
	BaseModel
	Username string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(20);default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail keeps the uniqueness check case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
