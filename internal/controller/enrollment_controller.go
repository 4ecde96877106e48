package controller

import (
	"errors"
	"net/http"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type EnrollRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaymentRequired):
			// nothing persisted; the client goes through checkout instead
			ctx.JSON(http.StatusOK, gin.H{
				"success":         false,
				"paymentRequired": true,
				"message":         "This course requires payment, use the checkout endpoint",
			})
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "Already enrolled in this course")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

func (c *EnrollmentController) MyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

func (c *EnrollmentController) Status(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	enrolled, err := c.EnrollmentService.IsEnrolled(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrolled": enrolled})
}

func (c *EnrollmentController) Roster(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	enrollments, err := c.EnrollmentService.ListStudents(claims, courseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollments)
}
