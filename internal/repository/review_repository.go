package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.DB.First(&review, id).Error
	return &review, err
}

func (r *ReviewRepository) FindByCourse(courseID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.DB.Preload("User").Where("course_id = ?", courseID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) FindByCourseAndUser(courseID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).First(&review).Error
	return &review, err
}

func (r *ReviewRepository) Update(review *model.Review) error {
	return r.DB.Save(review).Error
}

// Delete removes the row for real. A soft delete would keep the tombstone in
// the (course_id, user_id) unique index and block the user from ever
// reviewing the course again.
func (r *ReviewRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Review{}, id).Error
}

// Aggregate computes the rating projection for a course from the reviews
// table, the source of truth.
func (r *ReviewRepository) Aggregate(courseID uint) (float64, int, error) {
	var result struct {
		Average float64
		Count   int
	}
	err := r.DB.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&result).Error
	return result.Average, result.Count, err
}
