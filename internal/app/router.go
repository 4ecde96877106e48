package app

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/middleware"
	"course_platform_backend/internal/model"
	"course_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/courses", c.course.List)
		public.GET("/courses/:id", c.course.Get)
		public.GET("/courses/:id/reviews", c.review.ListByCourse)
		public.GET("/users/instructors", c.user.ListInstructors)

		// Stripe posts here with its own signature scheme, no JWT involved
		public.POST("/payment/stripe-webhook", c.payment.Webhook)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/profile", c.auth.Profile)
	rg.PUT("/users/profile", c.user.UpdateProfile)

	rg.GET("/lessons/:id", c.lesson.Get)

	rg.POST("/courses/:id/reviews", c.review.Create)
	rg.PUT("/reviews/:id", c.review.Update)
	rg.DELETE("/reviews/:id", c.review.Delete)

	rg.POST("/enrollments", middleware.RoleMiddleware(model.Student), c.enrollment.Enroll)
	rg.GET("/enrollments/my-courses", c.enrollment.MyCourses)
	rg.GET("/enrollments/:courseId/status", c.enrollment.Status)

	rg.POST("/payment/courses/:courseId/checkout", middleware.RoleMiddleware(model.Student), c.payment.CreateCheckoutSession)

	rg.POST("/participation/lessons/completion", middleware.RoleMiddleware(model.Student), c.participation.LogCompletion)
	rg.GET("/participation/courses/:courseId/progress", c.participation.CourseProgress)
	rg.GET("/participation/progress/overall", c.participation.OverallProgress)

	rg.GET("/attendance/my-history", middleware.RoleMiddleware(model.Student), c.attendance.History)

	rg.GET("/notifications", c.notification.List)
	rg.PATCH("/notifications/:id/read", c.notification.MarkRead)
	rg.DELETE("/notifications", c.notification.ClearAll)
	rg.GET("/notifications/ws", c.notification.Connect)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/")
	instructor.Use(middleware.RoleMiddleware(model.Instructor, model.Admin))
	{
		instructor.POST("/courses", c.course.Create)
		instructor.PUT("/courses/:id", c.course.Update)
		instructor.DELETE("/courses/:id", c.course.Delete)

		instructor.POST("/lessons", c.lesson.Create)
		instructor.PUT("/lessons/:id", c.lesson.Update)
		instructor.DELETE("/lessons/:id", c.lesson.Delete)

		instructor.GET("/enrollments/course/:courseId", c.enrollment.Roster)

		instructor.POST("/attendance", c.attendance.Mark)
		instructor.GET("/attendance/:courseId/:lessonId", c.attendance.Roster)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/users", c.user.Create)
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PUT("/users/:id", c.user.Update)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.GET("/reports/dashboard", c.report.Dashboard)
		admin.GET("/reports/enrollments", c.report.Enrollments)
		admin.GET("/reports/completion", c.report.Completion)
		admin.GET("/reports/roles", c.report.Roles)
		admin.GET("/reports/storage", c.report.Storage)
	}
}
