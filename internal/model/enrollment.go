package model

import "time"

// Enrollment grants a student access to a course. The composite unique index
// is the backstop against concurrent duplicate enrollment attempts.
type Enrollment struct {
	BaseModel
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_student_course" json:"studentId"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_student_course" json:"courseId"`
	Student    *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course     *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
