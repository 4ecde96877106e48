package controller

import (
	"errors"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
}

func NewAttendanceController(attendanceService *service.AttendanceService) *AttendanceController {
	return &AttendanceController{AttendanceService: attendanceService}
}

type MarkAttendanceRequest struct {
	CourseID  uint   `json:"courseId" binding:"required"`
	LessonID  uint   `json:"lessonId" binding:"required"`
	StudentID uint   `json:"studentId" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent"`
}

func (c *AttendanceController) Mark(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attendance, err := c.AttendanceService.Mark(claims, req.CourseID, req.LessonID, req.StudentID, model.AttendanceStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lesson not found")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "Student not found")
		case errors.Is(err, util.ErrNotEnrolled):
			util.BadRequest(ctx, "Student is not enrolled in this course")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attendance)
}

func (c *AttendanceController) Roster(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	records, err := c.AttendanceService.Roster(claims, courseID, lessonID)
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
	util.Success(ctx, records)
}

func (c *AttendanceController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.AttendanceService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
