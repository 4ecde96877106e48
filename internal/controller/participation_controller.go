package controller

import (
	"errors"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ParticipationController struct {
	ParticipationService *service.ParticipationService
}

func NewParticipationController(participationService *service.ParticipationService) *ParticipationController {
	return &ParticipationController{ParticipationService: participationService}
}

type CompletionRequest struct {
	LessonID  uint  `json:"lessonId" binding:"required"`
	Completed *bool `json:"completed" binding:"required"`
}

func (c *ParticipationController) LogCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	participation, err := c.ParticipationService.LogCompletion(claims.UserID, req.LessonID, *req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lesson not found")
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, participation)
}

func (c *ParticipationController) CourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	progress, err := c.ParticipationService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

func (c *ParticipationController) OverallProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.ParticipationService.OverallProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}
