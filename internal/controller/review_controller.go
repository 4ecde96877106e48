package controller

import (
	"errors"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

func (c *ReviewController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Create(claims.UserID, courseID, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAlreadyReviewed):
			util.Conflict(ctx, "You have already reviewed this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, review)
}

func (c *ReviewController) ListByCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	reviews, err := c.ReviewService.ListByCourse(courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Course not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, reviews)
}

type ReviewUpdateRequest struct {
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment string `json:"comment"`
}

func (c *ReviewController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req ReviewUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Update(claims, id, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrReviewNotFound):
			util.NotFound(ctx, "Review not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, review)
}

func (c *ReviewController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.ReviewService.Delete(claims, id); err != nil {
		switch {
		case errors.Is(err, util.ErrReviewNotFound):
			util.NotFound(ctx, "Review not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
