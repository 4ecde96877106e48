package service

import (
	"errors"
	"fmt"
	"time"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	Notifications  *NotificationService
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		Notifications:  notifications,
	}
}

// Enroll creates a free enrollment. Paid courses return ErrPaymentRequired
// without touching the enrollments table; the Stripe webhook finishes those.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if student.Role != model.Student {
		return nil, util.ErrPermissionDenied
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if course.Price > 0 {
		return nil, util.ErrPaymentRequired
	}

	return s.Complete(student, course, "free")
}

// Complete records the enrollment and notifies both parties. Called directly
// for free courses and from the webhook handler after payment.
func (s *EnrollmentService) Complete(student *model.User, course *model.Course, path string) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		StudentID:  student.ID,
		CourseID:   course.ID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	monitoring.EnrollmentCounter.WithLabelValues(path).Inc()

	go s.Notifications.Notify(student.ID,
		fmt.Sprintf("You have successfully enrolled in the course: %s", course.Title),
		model.NotifyEnrollment)
	go s.Notifications.Notify(course.InstructorID,
		fmt.Sprintf("%s has enrolled in your course: %s", student.Username, course.Title),
		model.NotifyEnrollment)

	return enrollment, nil
}

func (s *EnrollmentService) IsEnrolled(studentID, courseID uint) (bool, error) {
	_, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListMine returns the student's enrollments, skipping rows whose course has
// since been deleted.
func (s *EnrollmentService) ListMine(studentID uint) ([]model.Enrollment, error) {
	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	result := make([]model.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// ListStudents returns a course's roster. Only the owning instructor or an
// admin may see it.
func (s *EnrollmentService) ListStudents(actor *util.Claims, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !canMutate(actor, course) {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.FindByCourse(courseID)
}
