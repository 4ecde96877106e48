package service

import (
	"errors"
	"time"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"gorm.io/gorm"
)

type ParticipationService struct {
	ParticipationRepo *repository.ParticipationRepository
	LessonRepo        *repository.LessonRepository
	EnrollmentRepo    *repository.EnrollmentRepository
	Enrollments       *EnrollmentService
}

func NewParticipationService(
	participationRepo *repository.ParticipationRepository,
	lessonRepo *repository.LessonRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	enrollments *EnrollmentService,
) *ParticipationService {
	return &ParticipationService{
		ParticipationRepo: participationRepo,
		LessonRepo:        lessonRepo,
		EnrollmentRepo:    enrollmentRepo,
		Enrollments:       enrollments,
	}
}

// LessonProgress is one row of a per-course progress report.
type LessonProgress struct {
	LessonID  uint   `json:"lessonId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// CourseProgressSummary aggregates a student's completion across one enrolled
// course. Progress is a percentage in [0, 100] and stays 0 for courses with no
// lessons.
type CourseProgressSummary struct {
	CourseID         uint    `json:"courseId"`
	Title            string  `json:"title"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	Progress         float64 `json:"progress"`
}

// LogCompletion upserts the student's completion flag for a lesson. Setting
// completed back to false clears the timestamp.
func (s *ParticipationService) LogCompletion(studentID, lessonID uint, completed bool) (*model.Participation, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if enrolled, err := s.Enrollments.IsEnrolled(studentID, lesson.CourseID); err != nil {
		return nil, err
	} else if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	participation, err := s.ParticipationRepo.FindByStudentAndLesson(studentID, lessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		participation = &model.Participation{StudentID: studentID, LessonID: lessonID}
	}

	participation.Completed = completed
	if completed {
		now := time.Now()
		participation.CompletedAt = &now
	} else {
		participation.CompletedAt = nil
	}

	if err := s.ParticipationRepo.Save(participation); err != nil {
		return nil, err
	}
	return participation, nil
}

// CourseProgress lists every lesson of a course with the student's completion
// flag.
func (s *ParticipationService) CourseProgress(studentID, courseID uint) ([]LessonProgress, error) {
	if enrolled, err := s.Enrollments.IsEnrolled(studentID, courseID); err != nil {
		return nil, err
	} else if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	lessons, err := s.LessonRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	lessonIDs := make([]uint, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	completedIDs, err := s.ParticipationRepo.FindCompletedLessonIDs(studentID, lessonIDs)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	progress := make([]LessonProgress, 0, len(lessons))
	for _, l := range lessons {
		progress = append(progress, LessonProgress{
			LessonID:  l.ID,
			Title:     l.Title,
			Completed: completed[l.ID],
		})
	}
	return progress, nil
}

// OverallProgress summarizes completion across every course the student is
// enrolled in.
func (s *ParticipationService) OverallProgress(studentID uint) ([]CourseProgressSummary, error) {
	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	summaries := make([]CourseProgressSummary, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}

		lessons, err := s.LessonRepo.FindByCourse(e.CourseID)
		if err != nil {
			return nil, err
		}
		lessonIDs := make([]uint, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}

		completedCount, err := s.ParticipationRepo.CountCompleted(studentID, lessonIDs)
		if err != nil {
			return nil, err
		}

		summary := CourseProgressSummary{
			CourseID:         e.CourseID,
			Title:            e.Course.Title,
			TotalLessons:     len(lessons),
			CompletedLessons: int(completedCount),
		}
		if len(lessons) > 0 {
			summary.Progress = float64(completedCount) / float64(len(lessons)) * 100
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
