package service

import (
	"errors"
	"time"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"gorm.io/gorm"
)

type AttendanceService struct {
	AttendanceRepo *repository.AttendanceRepository
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	UserRepo       *repository.UserRepository
	Enrollments    *EnrollmentService
}

func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	userRepo *repository.UserRepository,
	enrollments *EnrollmentService,
) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo: attendanceRepo,
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		UserRepo:       userRepo,
		Enrollments:    enrollments,
	}
}

// Mark upserts the attendance record for one student at one lesson. The
// marking instructor must own the course and the student must be enrolled.
func (s *AttendanceService) Mark(actor *util.Claims, courseID, lessonID, studentID uint, status model.AttendanceStatus) (*model.Attendance, error) {
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

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotFound
	}

	if _, err := s.UserRepo.FindByID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if enrolled, err := s.Enrollments.IsEnrolled(studentID, courseID); err != nil {
		return nil, err
	} else if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	attendance, err := s.AttendanceRepo.Find(courseID, lessonID, studentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		attendance = &model.Attendance{
			CourseID:  courseID,
			LessonID:  lessonID,
			StudentID: studentID,
		}
	}

	attendance.Status = status
	attendance.Date = time.Now()

	if err := s.AttendanceRepo.Save(attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

// Roster returns all attendance records for one lesson, for the owning
// instructor or an admin.
func (s *AttendanceService) Roster(actor *util.Claims, courseID, lessonID uint) ([]model.Attendance, error) {
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
	return s.AttendanceRepo.FindByLesson(courseID, lessonID)
}

// History returns the student's own attendance records, dropping rows whose
// course has since been deleted.
func (s *AttendanceService) History(studentID uint) ([]model.Attendance, error) {
	records, err := s.AttendanceRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	result := make([]model.Attendance, 0, len(records))
	for _, r := range records {
		if r.Course == nil {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}
