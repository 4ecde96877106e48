package model

// Review ratings feed the denormalized AverageRating/NumReviews on Course;
// the reviews table stays the source of truth. The unique index closes the
// duplicate-review race the application check alone would leave open.
type Review struct {
	BaseModel
	CourseID uint   `gorm:"not null;uniqueIndex:idx_course_user" json:"courseId"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_course_user" json:"userId"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text;not null" json:"comment"`
	User     *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
