package service

import (
	"errors"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo  *repository.ReviewRepository
	CourseRepo  *repository.CourseRepository
	Enrollments *EnrollmentService
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	courseRepo *repository.CourseRepository,
	enrollments *EnrollmentService,
) *ReviewService {
	return &ReviewService{
		ReviewRepo:  reviewRepo,
		CourseRepo:  courseRepo,
		Enrollments: enrollments,
	}
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// Create adds the user's review of a course, one per (course, user). Only
// enrolled students may review.
func (s *ReviewService) Create(userID, courseID uint, input ReviewInput) (*model.Review, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if enrolled, err := s.Enrollments.IsEnrolled(userID, courseID); err != nil {
		return nil, err
	} else if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	if _, err := s.ReviewRepo.FindByCourseAndUser(courseID, userID); err == nil {
		return nil, util.ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		CourseID: courseID,
		UserID:   userID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := s.ReviewRepo.Create(review); err != nil {
		return nil, err
	}

	s.refreshRating(courseID)
	return review, nil
}

func (s *ReviewService) ListByCourse(courseID uint) ([]model.Review, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.ReviewRepo.FindByCourse(courseID)
}

// Update edits the author's own review. Admins may edit any review.
func (s *ReviewService) Update(actor *util.Claims, id uint, input ReviewInput) (*model.Review, error) {
	review, err := s.ReviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != actor.UserID && actor.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	if input.Rating != 0 {
		review.Rating = input.Rating
	}
	if input.Comment != "" {
		review.Comment = input.Comment
	}

	if err := s.ReviewRepo.Update(review); err != nil {
		return nil, err
	}

	s.refreshRating(review.CourseID)
	return review, nil
}

func (s *ReviewService) Delete(actor *util.Claims, id uint) error {
	review, err := s.ReviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrReviewNotFound
		}
		return err
	}

	if review.UserID != actor.UserID && actor.Role != model.Admin {
		return util.ErrPermissionDenied
	}

	if err := s.ReviewRepo.Delete(id); err != nil {
		return err
	}

	s.refreshRating(review.CourseID)
	return nil
}

// refreshRating recomputes the course's denormalized rating from the reviews
// table. A failed refresh only leaves the projection stale, so it is logged,
// not surfaced.
func (s *ReviewService) refreshRating(courseID uint) {
	average, count, err := s.ReviewRepo.Aggregate(courseID)
	if err != nil {
		logger.Log.Error("Failed to aggregate course reviews", zap.Error(err), zap.Uint("courseId", courseID))
		return
	}
	if err := s.CourseRepo.UpdateRatingStats(courseID, average, count); err != nil {
		logger.Log.Error("Failed to update course rating stats", zap.Error(err), zap.Uint("courseId", courseID))
	}
}
