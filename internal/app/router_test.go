package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type routerEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Stripe.Currency = "usd"

	a := &App{Config: cfg, DB: db}
	repos := a.initRepositories(db)

	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.notification = service.NewNotificationService(repos.notification, nil)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.media, s.storage, s.notification)
	s.course = service.NewCourseService(repos.course, s.lesson, s.notification)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.user, s.notification)
	s.payment = service.NewPaymentService(cfg, repos.user, repos.course, s.enrollment)
	s.participation = service.NewParticipationService(repos.participation, repos.lesson, repos.enrollment, s.enrollment)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.course, repos.lesson, repos.user, s.enrollment)
	s.review = service.NewReviewService(repos.review, repos.course, s.enrollment)
	s.report = service.NewReportService(db)
	a.services = s

	controllers := a.initControllers(s, db)

	router := gin.New()
	a.Router = router
	a.registerRoutes(router, controllers, cfg)

	return &routerEnv{router: router, db: db, cfg: cfg}
}

func (e *routerEnv) createUser(t *testing.T, username string, role model.UserRole) (*model.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, repository.NewUserRepository(e.db).Create(user))

	token, err := util.GenerateJWT(user, e.cfg.JWT.Secret, e.cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return user, token
}

func (e *routerEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRegisterLoginProfile(t *testing.T) {
	env := newRouterEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "student", decodeData(t, w)["role"])

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeData(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	w = env.request(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decodeData(t, w)["username"])

	w = env.request(t, http.MethodPut, "/api/users/profile", token, gin.H{
		"username": "alice2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "alice2", decodeData(t, w)["username"])
}

func TestLoginBadCredentials(t *testing.T) {
	env := newRouterEnv(t)
	env.createUser(t, "alice", model.Student)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCourseCreationRoleGates(t *testing.T) {
	env := newRouterEnv(t)
	_, studentToken := env.createUser(t, "alice", model.Student)
	_, instructorToken := env.createUser(t, "teach", model.Instructor)

	body := gin.H{"title": "Go Basics", "description": "intro", "price": 0}

	w := env.request(t, http.MethodPost, "/api/courses", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/courses", studentToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/api/courses", instructorToken, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// the new course is publicly listed
	w = env.request(t, http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeData(t, w)["total"])
}

func TestFreeEnrollmentFlow(t *testing.T) {
	env := newRouterEnv(t)
	instructor, _ := env.createUser(t, "teach", model.Instructor)
	_, studentToken := env.createUser(t, "alice", model.Student)

	course := &model.Course{Title: "Go Basics", Description: "intro", InstructorID: instructor.ID}
	require.NoError(t, env.db.Create(course).Error)

	w := env.request(t, http.MethodPost, "/api/enrollments", studentToken, gin.H{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// repeat attempt conflicts
	w = env.request(t, http.MethodPost, "/api/enrollments", studentToken, gin.H{"courseId": course.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.request(t, http.MethodGet, "/api/enrollments/my-courses", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/enrollments/%d/status", course.ID), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeData(t, w)["enrolled"])
}

func TestPaidEnrollmentIsDeferredToCheckout(t *testing.T) {
	env := newRouterEnv(t)
	instructor, _ := env.createUser(t, "teach", model.Instructor)
	_, studentToken := env.createUser(t, "alice", model.Student)

	course := &model.Course{Title: "Advanced Go", Description: "deep dive", Price: 49, InstructorID: instructor.ID}
	require.NoError(t, env.db.Create(course).Error)

	w := env.request(t, http.MethodPost, "/api/enrollments", studentToken, gin.H{"courseId": course.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, true, resp["paymentRequired"])

	var count int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutFreeCourseEnrollsDirectly(t *testing.T) {
	env := newRouterEnv(t)
	instructor, _ := env.createUser(t, "teach", model.Instructor)
	_, studentToken := env.createUser(t, "alice", model.Student)

	course := &model.Course{Title: "Go Basics", Description: "intro", InstructorID: instructor.ID}
	require.NoError(t, env.db.Create(course).Error)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/payment/courses/%d/checkout", course.ID), studentToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.NotNil(t, data["enrollment"])
	assert.Empty(t, data["sessionUrl"])
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	env := newRouterEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/stripe-webhook", bytes.NewBufferString(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportsAdminOnly(t *testing.T) {
	env := newRouterEnv(t)
	_, studentToken := env.createUser(t, "alice", model.Student)
	_, adminToken := env.createUser(t, "root", model.Admin)

	w := env.request(t, http.MethodGet, "/api/reports/dashboard", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/reports/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.EqualValues(t, 2, data["totalUsers"])
}

func TestNotificationEndpoints(t *testing.T) {
	env := newRouterEnv(t)
	alice, aliceToken := env.createUser(t, "alice", model.Student)

	notif := &model.Notification{RecipientID: alice.ID, Message: "Hi", Type: model.NotifyAdminMessage}
	require.NoError(t, env.db.Create(notif).Error)

	w := env.request(t, http.MethodGet, "/api/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)

	w = env.request(t, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", notif.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, "/api/notifications", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
