package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByIDFull(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_order")
		}).
		Preload("Lessons.Media").
		First(&course, id).Error
	return &course, err
}

// Search applies a case-insensitive keyword match over title/description and
// an optional instructor filter, with offset/limit pagination.
func (r *CourseRepository) Search(keyword string, instructorID uint, offset, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if instructorID != 0 {
		query = query.Where("instructor_id = ?", instructorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.
		Preload("Instructor").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

// UpdateRatingStats persists the denormalized review projection.
func (r *CourseRepository) UpdateRatingStats(courseID uint, averageRating float64, numReviews int) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"average_rating": averageRating,
			"num_reviews":    numReviews,
		}).Error
}
