package controller

import (
	"errors"
	"strconv"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

type CourseRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description" binding:"required"`
	Price        int64  `json:"price" binding:"gte=0"`
	InstructorID uint   `json:"instructorId"`
}

func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims, service.CourseInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		InstructorID: req.InstructorID,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

func (c *CourseController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	keyword := ctx.Query("keyword")
	instructorID := util.MustParseUint(ctx.Query("instructor"))

	result, err := c.CourseService.List(keyword, instructorID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:       result.Courses,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

func (c *CourseController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	course, err := c.CourseService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Course not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

type CourseUpdateRequest struct {
	Title        string `json:"title" binding:"omitempty,max=200"`
	Description  string `json:"description"`
	Price        *int64 `json:"price" binding:"omitempty,gte=0"`
	InstructorID uint   `json:"instructorId"`
}

func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req CourseUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(claims, id, service.CourseUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		InstructorID: req.InstructorID,
	})
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
	util.Success(ctx, course)
}

func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Delete(ctx.Request.Context(), claims, id); err != nil {
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
	util.Success(ctx, gin.H{"deleted": id})
}
