package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAlreadyEnrolled      = errors.New("student already enrolled in this course")
	ErrNotEnrolled          = errors.New("student is not enrolled in this course")
	ErrAlreadyReviewed      = errors.New("course already reviewed by this user")
	ErrPaymentRequired      = errors.New("course requires payment")
)
