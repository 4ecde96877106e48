package service

import (
	"time"

	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

// ReportService runs read-only aggregate queries for the admin dashboard
// straight against gorm, there is no demand for a repository abstraction
// here.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type DashboardReport struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalEnrollments int64 `json:"totalEnrollments"`
	TotalReviews     int64 `json:"totalReviews"`
	TotalLessons     int64 `json:"totalLessons"`
}

type CourseEnrollmentStat struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
}

type CourseCompletionStat struct {
	CourseID       uint    `json:"courseId"`
	Title          string  `json:"title"`
	TotalLessons   int64   `json:"totalLessons"`
	Enrollments    int64   `json:"enrollments"`
	Completions    int64   `json:"completions"`
	CompletionRate float64 `json:"completionRate"`
}

type RoleDistribution struct {
	Role  model.UserRole `json:"role"`
	Count int64          `json:"count"`
}

type MediaTypeCount struct {
	Type  model.MediaType `json:"type"`
	Count int64           `json:"count"`
}

type StorageReport struct {
	TotalAssets  int64            `json:"totalAssets"`
	ByType       []MediaTypeCount `json:"byType"`
	LatestUpload *time.Time       `json:"latestUpload,omitempty"`
}

func (s *ReportService) Dashboard() (*DashboardReport, error) {
	var report DashboardReport
	counts := []struct {
		dest  *int64
		model interface{}
	}{
		{&report.TotalUsers, &model.User{}},
		{&report.TotalCourses, &model.Course{}},
		{&report.TotalEnrollments, &model.Enrollment{}},
		{&report.TotalReviews, &model.Review{}},
		{&report.TotalLessons, &model.Lesson{}},
	}
	for _, c := range counts {
		if err := s.DB.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &report, nil
}

func (s *ReportService) EnrollmentsPerCourse() ([]CourseEnrollmentStat, error) {
	var stats []CourseEnrollmentStat
	err := s.DB.Model(&model.Course{}).
		Select("courses.id AS course_id, courses.title, COUNT(enrollments.id) AS enrollments").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("courses.deleted_at IS NULL").
		Group("courses.id, courses.title").
		Order("enrollments DESC").
		Scan(&stats).Error
	return stats, err
}

// CompletionRates reports, per course, the share of (enrollment, lesson)
// pairs that have been completed.
func (s *ReportService) CompletionRates() ([]CourseCompletionStat, error) {
	stats, err := s.EnrollmentsPerCourse()
	if err != nil {
		return nil, err
	}

	result := make([]CourseCompletionStat, 0, len(stats))
	for _, stat := range stats {
		var lessonCount int64
		if err := s.DB.Model(&model.Lesson{}).Where("course_id = ?", stat.CourseID).Count(&lessonCount).Error; err != nil {
			return nil, err
		}

		var completions int64
		if lessonCount > 0 {
			err := s.DB.Model(&model.Participation{}).
				Joins("JOIN lessons ON lessons.id = participations.lesson_id AND lessons.deleted_at IS NULL").
				Where("lessons.course_id = ? AND participations.completed = ?", stat.CourseID, true).
				Count(&completions).Error
			if err != nil {
				return nil, err
			}
		}

		row := CourseCompletionStat{
			CourseID:     stat.CourseID,
			Title:        stat.Title,
			TotalLessons: lessonCount,
			Enrollments:  stat.Enrollments,
			Completions:  completions,
		}
		if total := lessonCount * stat.Enrollments; total > 0 {
			row.CompletionRate = float64(completions) / float64(total) * 100
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *ReportService) RoleDistribution() ([]RoleDistribution, error) {
	var rows []RoleDistribution
	err := s.DB.Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	return rows, err
}

func (s *ReportService) StorageUsage() (*StorageReport, error) {
	report := &StorageReport{}

	if err := s.DB.Model(&model.MediaAsset{}).Count(&report.TotalAssets).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.MediaAsset{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&report.ByType).Error; err != nil {
		return nil, err
	}

	if report.TotalAssets > 0 {
		var latest time.Time
		err := s.DB.Model(&model.MediaAsset{}).
			Select("MAX(uploaded_at)").
			Scan(&latest).Error
		if err != nil {
			return nil, err
		}
		report.LatestUpload = &latest
	}
	return report, nil
}
