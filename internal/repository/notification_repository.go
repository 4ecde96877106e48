package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) FindByRecipient(recipientID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) FindByIDAndRecipient(id, recipientID uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.DB.Where("id = ? AND recipient_id = ?", id, recipientID).First(&notification).Error
	return &notification, err
}

func (r *NotificationRepository) Update(notification *model.Notification) error {
	return r.DB.Save(notification).Error
}

func (r *NotificationRepository) DeleteAllForRecipient(recipientID uint) error {
	return r.DB.Where("recipient_id = ?", recipientID).Delete(&model.Notification{}).Error
}
