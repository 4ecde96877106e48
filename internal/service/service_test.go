package service

import (
	"fmt"
	"testing"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db *gorm.DB

	users          *repository.UserRepository
	courses        *repository.CourseRepository
	lessons        *repository.LessonRepository
	media          *repository.MediaRepository
	enrollments    *repository.EnrollmentRepository
	participations *repository.ParticipationRepository
	attendances    *repository.AttendanceRepository
	reviews        *repository.ReviewRepository
	notifications  *repository.NotificationRepository

	auth          *AuthService
	user          *UserService
	course        *CourseService
	lesson        *LessonService
	enrollment    *EnrollmentService
	participation *ParticipationService
	attendance    *AttendanceService
	review        *ReviewService
	notification  *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:             db,
		users:          repository.NewUserRepository(db),
		courses:        repository.NewCourseRepository(db),
		lessons:        repository.NewLessonRepository(db),
		media:          repository.NewMediaRepository(db),
		enrollments:    repository.NewEnrollmentRepository(db),
		participations: repository.NewParticipationRepository(db),
		attendances:    repository.NewAttendanceRepository(db),
		reviews:        repository.NewReviewRepository(db),
		notifications:  repository.NewNotificationRepository(db),
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	storage := NewStorageService(cfg)

	// hub stays nil so push is skipped and only persistence runs
	env.notification = NewNotificationService(env.notifications, nil)
	env.auth = NewAuthService(env.users, cfg)
	env.user = NewUserService(env.users)
	env.lesson = NewLessonService(env.lessons, env.courses, env.media, storage, env.notification)
	env.course = NewCourseService(env.courses, env.lesson, env.notification)
	env.enrollment = NewEnrollmentService(env.enrollments, env.courses, env.users, env.notification)
	env.participation = NewParticipationService(env.participations, env.lessons, env.enrollments, env.enrollment)
	env.attendance = NewAttendanceService(env.attendances, env.courses, env.lessons, env.users, env.enrollment)
	env.review = NewReviewService(env.reviews, env.courses, env.enrollment)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role model.UserRole) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructorID uint, title string, price int64) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:        title,
		Description:  "about " + title,
		Price:        price,
		InstructorID: instructorID,
	}
	require.NoError(t, e.courses.Create(course))
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uint, title string, order int) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{CourseID: courseID, Title: title, Order: order}
	require.NoError(t, e.lessons.Create(lesson))
	return lesson
}

func (e *testEnv) enroll(t *testing.T, student *model.User, course *model.Course) {
	t.Helper()
	_, err := e.enrollment.Complete(student, course, "free")
	require.NoError(t, err)
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{UserID: user.ID, Role: user.Role, Email: user.Email}
}
