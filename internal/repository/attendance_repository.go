package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

func (r *AttendanceRepository) Find(courseID, lessonID, studentID uint) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.DB.
		Where("course_id = ? AND lesson_id = ? AND student_id = ?", courseID, lessonID, studentID).
		First(&attendance).Error
	return &attendance, err
}

func (r *AttendanceRepository) Save(attendance *model.Attendance) error {
	return r.DB.Save(attendance).Error
}

func (r *AttendanceRepository) FindByLesson(courseID, lessonID uint) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.DB.
		Preload("Student").
		Where("course_id = ? AND lesson_id = ?", courseID, lessonID).
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) FindByStudent(studentID uint) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.DB.
		Preload("Course").
		Preload("Lesson").
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}
