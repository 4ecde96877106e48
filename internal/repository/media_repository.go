package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type MediaRepository struct {
	DB *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{DB: db}
}

func (r *MediaRepository) Create(asset *model.MediaAsset) error {
	return r.DB.Create(asset).Error
}

func (r *MediaRepository) FindByLesson(lessonID uint) ([]model.MediaAsset, error) {
	var assets []model.MediaAsset
	err := r.DB.Where("lesson_id = ?", lessonID).Find(&assets).Error
	return assets, err
}

func (r *MediaRepository) DeleteByPublicID(publicID string) error {
	return r.DB.Where("public_id = ?", publicID).Delete(&model.MediaAsset{}).Error
}
