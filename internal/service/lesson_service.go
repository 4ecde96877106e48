package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo    *repository.LessonRepository
	CourseRepo    *repository.CourseRepository
	MediaRepo     *repository.MediaRepository
	Storage       *StorageService
	Notifications *NotificationService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	mediaRepo *repository.MediaRepository,
	storage *StorageService,
	notifications *NotificationService,
) *LessonService {
	return &LessonService{
		LessonRepo:    lessonRepo,
		CourseRepo:    courseRepo,
		MediaRepo:     mediaRepo,
		Storage:       storage,
		Notifications: notifications,
	}
}

type LessonInput struct {
	CourseID uint
	Title    string
	Content  string
	Order    int
}

// MediaUpload carries a sniffed multipart file on its way to object storage.
type MediaUpload struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
}

func mediaTypeFor(contentType string) model.MediaType {
	switch {
	case util.IsImage(contentType):
		return model.MediaImage
	case util.IsVideo(contentType):
		return model.MediaVideo
	case util.IsAudio(contentType):
		return model.MediaAudio
	default:
		return model.MediaDocument
	}
}

func (s *LessonService) Create(ctx context.Context, actor *util.Claims, input LessonInput, upload *MediaUpload) (*model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(input.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID: input.CourseID,
		Title:    input.Title,
		Content:  input.Content,
		Order:    input.Order,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}

	if upload != nil {
		asset, err := s.attachMedia(ctx, actor.UserID, lesson, upload)
		if err != nil {
			return nil, err
		}
		lesson.Media = append(lesson.Media, *asset)
	}

	go s.Notifications.Notify(actor.UserID,
		fmt.Sprintf("You have successfully created a new lesson: %s for course %s", lesson.Title, course.Title),
		model.NotifyLessonUpdate)

	return lesson, nil
}

func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return lesson, err
}

func (s *LessonService) Update(ctx context.Context, actor *util.Claims, id uint, input LessonInput, upload *MediaUpload) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
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
		lesson.Title = input.Title
	}
	if input.Content != "" {
		lesson.Content = input.Content
	}
	if input.Order != 0 {
		lesson.Order = input.Order
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}

	if upload != nil {
		asset, err := s.attachMedia(ctx, actor.UserID, lesson, upload)
		if err != nil {
			return nil, err
		}
		lesson.Media = append(lesson.Media, *asset)
	}

	go s.Notifications.Notify(actor.UserID,
		fmt.Sprintf("You have successfully updated the lesson: %s for course %s", lesson.Title, course.Title),
		model.NotifyLessonUpdate)

	return lesson, nil
}

// Delete removes the lesson after cleaning up its media assets. Per-asset
// failures are logged and skipped so one broken object cannot wedge the
// delete.
func (s *LessonService) Delete(ctx context.Context, actor *util.Claims, id uint) error {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if !canMutate(actor, course) {
		return util.ErrPermissionDenied
	}

	s.cleanupMedia(ctx, lesson.ID)

	return s.LessonRepo.Delete(lesson.ID)
}

func (s *LessonService) attachMedia(ctx context.Context, uploaderID uint, lesson *model.Lesson, upload *MediaUpload) (*model.MediaAsset, error) {
	key := fmt.Sprintf("course_media/%d/%s%s", lesson.CourseID, uuid.New().String(), path.Ext(upload.Filename))

	url, err := s.Storage.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}

	asset := &model.MediaAsset{
		LessonID:     &lesson.ID,
		Type:         mediaTypeFor(upload.ContentType),
		URL:          url,
		PublicID:     key,
		UploadedByID: uploaderID,
		UploadedAt:   time.Now(),
	}
	if err := s.MediaRepo.Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *LessonService) cleanupMedia(ctx context.Context, lessonID uint) {
	assets, err := s.MediaRepo.FindByLesson(lessonID)
	if err != nil {
		logger.Log.Error("Failed to list media assets for cleanup", zap.Error(err), zap.Uint("lessonId", lessonID))
		return
	}

	for _, asset := range assets {
		if err := s.Storage.Delete(ctx, asset.PublicID); err != nil {
			logger.Log.Error("Failed to delete media object from storage",
				zap.Error(err),
				zap.String("publicId", asset.PublicID),
			)
			// keep going; the row is removed regardless
		}
		if err := s.MediaRepo.DeleteByPublicID(asset.PublicID); err != nil {
			logger.Log.Error("Failed to delete media asset record",
				zap.Error(err),
				zap.String("publicId", asset.PublicID),
			)
		}
	}
}
