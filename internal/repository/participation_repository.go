package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type ParticipationRepository struct {
	DB *gorm.DB
}

func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{DB: db}
}

func (r *ParticipationRepository) FindByStudentAndLesson(studentID, lessonID uint) (*model.Participation, error) {
	var participation model.Participation
	err := r.DB.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&participation).Error
	return &participation, err
}

func (r *ParticipationRepository) Save(participation *model.Participation) error {
	return r.DB.Save(participation).Error
}

// FindCompletedLessonIDs returns the subset of lessonIDs the student has
// completed.
func (r *ParticipationRepository) FindCompletedLessonIDs(studentID uint, lessonIDs []uint) ([]uint, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.DB.Model(&model.Participation{}).
		Where("student_id = ? AND lesson_id IN ? AND completed = ?", studentID, lessonIDs, true).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

func (r *ParticipationRepository) CountCompleted(studentID uint, lessonIDs []uint) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.Model(&model.Participation{}).
		Where("student_id = ? AND lesson_id IN ? AND completed = ?", studentID, lessonIDs, true).
		Count(&count).Error
	return count, err
}
