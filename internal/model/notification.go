package model

type NotificationType string

const (
	NotifyEnrollment   NotificationType = "enrollment"
	NotifyNewCourse    NotificationType = "new_course"
	NotifyLessonUpdate NotificationType = "lesson_update"
	NotifyAdminMessage NotificationType = "admin_message"
)

// Notification is the durable record; the live push over the hub is a
// best-effort convenience on top of it.
type Notification struct {
	BaseModel
	RecipientID uint             `gorm:"not null;index" json:"-"`
	Message     string           `gorm:"size:512;not null" json:"message"`
	Type        NotificationType `gorm:"type:varchar(30);default:'admin_message'" json:"type"`
	Read        bool             `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}
