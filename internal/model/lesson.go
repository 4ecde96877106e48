package model

type Lesson struct {
	BaseModel
	CourseID uint         `gorm:"not null;index" json:"courseId"`
	Title    string       `gorm:"size:255;not null" json:"title"`
	Content  string       `gorm:"type:text" json:"content"`
	Order    int          `gorm:"column:lesson_order;not null" json:"order"`
	Media    []MediaAsset `gorm:"foreignKey:LessonID" json:"media,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
