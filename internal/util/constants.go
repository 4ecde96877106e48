package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimeAudio = "audio/"
	MimePDF   = "application/pdf"
)

// Lesson media upload ceiling.
const MaxMediaUploadBytes = 50 << 20
