package service

import (
	"context"
	"errors"
	"fmt"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo    *repository.CourseRepository
	LessonService *LessonService
	Notifications *NotificationService
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonService *LessonService, notifications *NotificationService) *CourseService {
	return &CourseService{
		CourseRepo:    courseRepo,
		LessonService: lessonService,
		Notifications: notifications,
	}
}

type CourseInput struct {
	Title        string
	Description  string
	Price        int64
	InstructorID uint // honored for admins only
}

type CoursePage struct {
	Courses    []model.Course
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Create makes the acting user the instructor unless an admin assigns the
// course to somebody else.
func (s *CourseService) Create(actor *util.Claims, input CourseInput) (*model.Course, error) {
	instructorID := actor.UserID
	if actor.Role == model.Admin && input.InstructorID != 0 {
		instructorID = input.InstructorID
	}

	course := &model.Course{
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	go s.Notifications.Notify(instructorID,
		fmt.Sprintf("You have successfully created a new course: %s", course.Title),
		model.NotifyNewCourse)

	return course, nil
}

func (s *CourseService) List(keyword string, instructorID uint, page, limit int) (*CoursePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	courses, total, err := s.CourseRepo.Search(keyword, instructorID, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &CoursePage{
		Courses:    courses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDFull(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

// canMutate is the ownership rule shared by update and delete.
func canMutate(actor *util.Claims, course *model.Course) bool {
	return actor.UserID == course.InstructorID || actor.Role == model.Admin
}

type CourseUpdate struct {
	Title        string
	Description  string
	Price        *int64
	InstructorID uint // honored for admins only
}

func (s *CourseService) Update(actor *util.Claims, id uint, input CourseUpdate) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if !canMutate(actor, course) {
		return nil, util.ErrPermissionDenied
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Price != nil && *input.Price >= 0 {
		course.Price = *input.Price
	}
	if actor.Role == model.Admin && input.InstructorID != 0 {
		course.InstructorID = input.InstructorID
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes the course and cascades through its lessons, which in turn
// clean up their media assets best effort.
func (s *CourseService) Delete(ctx context.Context, actor *util.Claims, id uint) error {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if !canMutate(actor, course) {
		return util.ErrPermissionDenied
	}

	lessons, err := s.LessonService.LessonRepo.FindByCourse(id)
	if err != nil {
		return err
	}
	for _, lesson := range lessons {
		s.LessonService.cleanupMedia(ctx, lesson.ID)
	}
	if err := s.LessonService.LessonRepo.DeleteByCourse(id); err != nil {
		return err
	}

	return s.CourseRepo.Delete(id)
}
