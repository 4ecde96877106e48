package model

type Course struct {
	BaseModel
	Title         string   `gorm:"size:255;not null" json:"title"`
	Description   string   `gorm:"type:text" json:"description"`
	Price         int64    `gorm:"default:0" json:"price"`
	InstructorID  uint     `gorm:"not null;index" json:"instructorId"`
	Instructor    *User    `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Lessons       []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	AverageRating float64  `gorm:"default:0" json:"averageRating"`
	NumReviews    int      `gorm:"default:0" json:"numReviews"`
}

func (Course) TableName() string {
	return "courses"
}
