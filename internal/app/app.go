package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/controller"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"
	"course_platform_backend/pkg/security"
	"course_platform_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	course        *repository.CourseRepository
	lesson        *repository.LessonRepository
	media         *repository.MediaRepository
	enrollment    *repository.EnrollmentRepository
	participation *repository.ParticipationRepository
	attendance    *repository.AttendanceRepository
	review        *repository.ReviewRepository
	notification  *repository.NotificationRepository
}

type services struct {
	storage         *service.StorageService
	auth            *service.AuthService
	user            *service.UserService
	course          *service.CourseService
	lesson          *service.LessonService
	enrollment      *service.EnrollmentService
	payment         *service.PaymentService
	participation   *service.ParticipationService
	attendance      *service.AttendanceService
	review          *service.ReviewService
	report          *service.ReportService
	notification    *service.NotificationService
	notificationHub *service.NotificationHub
}

type controllers struct {
	auth          *controller.AuthController
	user          *controller.UserController
	course        *controller.CourseController
	lesson        *controller.LessonController
	enrollment    *controller.EnrollmentController
	payment       *controller.PaymentController
	participation *controller.ParticipationController
	attendance    *controller.AttendanceController
	review        *controller.ReviewController
	report        *controller.ReportController
	notification  *controller.NotificationController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig fans the new config out to registered callbacks. Used by the
// config file watcher.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		course:        repository.NewCourseRepository(db),
		lesson:        repository.NewLessonRepository(db),
		media:         repository.NewMediaRepository(db),
		enrollment:    repository.NewEnrollmentRepository(db),
		participation: repository.NewParticipationRepository(db),
		attendance:    repository.NewAttendanceRepository(db),
		review:        repository.NewReviewRepository(db),
		notification:  repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)

	s.notificationHub = service.NewNotificationHub(rdb)
	go s.notificationHub.Run()
	s.notification = service.NewNotificationService(repos.notification, s.notificationHub)

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

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth),
		user:          controller.NewUserController(s.user),
		course:        controller.NewCourseController(s.course),
		lesson:        controller.NewLessonController(s.lesson),
		enrollment:    controller.NewEnrollmentController(s.enrollment),
		payment:       controller.NewPaymentController(s.payment),
		participation: controller.NewParticipationController(s.participation),
		attendance:    controller.NewAttendanceController(s.attendance),
		review:        controller.NewReviewController(s.review),
		report:        controller.NewReportController(s.report),
		notification:  controller.NewNotificationController(s.notification, s.notificationHub),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// drop live WebSocket connections before the listener goes away
	if a.services != nil && a.services.notificationHub != nil {
		a.services.notificationHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
