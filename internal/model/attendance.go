package model

import "time"

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
)

func IsValidAttendanceStatus(s AttendanceStatus) bool {
	return s == Present || s == Absent
}

// Attendance keeps one record per (course, lesson, student), upserted on mark.
type Attendance struct {
	BaseModel
	CourseID  uint             `gorm:"not null;uniqueIndex:idx_course_lesson_student" json:"courseId"`
	LessonID  uint             `gorm:"not null;uniqueIndex:idx_course_lesson_student" json:"lessonId"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_course_lesson_student" json:"studentId"`
	Status    AttendanceStatus `gorm:"type:varchar(10);default:'absent'" json:"status"`
	Date      time.Time        `json:"date"`
	Student   *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course    *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Lesson    *Lesson          `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}
