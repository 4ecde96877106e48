package service

import (
	"errors"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	Hub              *NotificationHub
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, hub *NotificationHub) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		Hub:              hub,
	}
}

// Notify persists the notification and then pushes it to the recipient's
// room. Both steps are best effort: a failure is logged and never propagated
// to the mutation that triggered it.
func (s *NotificationService) Notify(recipientID uint, message string, notifType model.NotificationType) {
	notification := &model.Notification{
		RecipientID: recipientID,
		Message:     message,
		Type:        notifType,
	}

	if err := s.NotificationRepo.Create(notification); err != nil {
		logger.Log.Error("Failed to persist notification",
			zap.Error(err),
			zap.Uint("recipientId", recipientID),
			zap.String("type", string(notifType)),
		)
		monitoring.NotificationCounter.WithLabelValues(string(notifType), "persist_error").Inc()
		return
	}

	if s.Hub != nil {
		err := s.Hub.PushToUser(recipientID, WSEvent{
			Type: "new_notification",
			Data: notification,
		})
		if err != nil {
			logger.Log.Warn("Failed to push notification",
				zap.Error(err),
				zap.Uint("recipientId", recipientID),
			)
			monitoring.NotificationCounter.WithLabelValues(string(notifType), "push_error").Inc()
			return
		}
	}

	monitoring.NotificationCounter.WithLabelValues(string(notifType), "ok").Inc()
}

func (s *NotificationService) List(recipientID uint) ([]model.Notification, error) {
	return s.NotificationRepo.FindByRecipient(recipientID)
}

// MarkRead flips the read flag; it only ever moves false -> true.
func (s *NotificationService) MarkRead(id, recipientID uint) error {
	notification, err := s.NotificationRepo.FindByIDAndRecipient(id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotificationNotFound
		}
		return err
	}

	if notification.Read {
		return nil
	}
	notification.Read = true
	return s.NotificationRepo.Update(notification)
}

func (s *NotificationService) ClearAll(recipientID uint) error {
	return s.NotificationRepo.DeleteAllForRecipient(recipientID)
}
