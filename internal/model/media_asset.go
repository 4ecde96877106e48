package model

import "time"

type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

// MediaAsset records an object held in external storage. PublicID is the
// storage key used for deletion.
type MediaAsset struct {
	BaseModel
	LessonID     *uint     `gorm:"index" json:"lessonId,omitempty"`
	Type         MediaType `gorm:"type:varchar(20);not null" json:"type"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	PublicID     string    `gorm:"size:255;not null;index" json:"public_id"`
	UploadedByID uint      `gorm:"not null" json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
