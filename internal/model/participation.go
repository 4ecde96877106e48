package model

import "time"

// Participation is the per-student-per-lesson completion flag behind progress
// aggregation. CompletedAt is set only while Completed is true.
type Participation struct {
	BaseModel
	StudentID   uint       `gorm:"not null;uniqueIndex:idx_student_lesson" json:"studentId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_student_lesson" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (Participation) TableName() string {
	return "participations"
}
