package controller

import (
	"errors"
	"io"
	"net/http"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

func (c *PaymentController) CreateCheckoutSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	result, err := c.PaymentService.CreateCheckoutSession(claims.UserID, courseID)
	if err != nil {
		switch {
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

	if result.Enrollment != nil {
		util.Created(ctx, result)
		return
	}
	util.Success(ctx, result)
}

// Webhook needs the raw request body for signature verification, so it
// bypasses the JSON binding everything else uses.
func (c *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<16))
	if err != nil {
		util.BadRequest(ctx, "Failed to read request body")
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	if err := c.PaymentService.HandleWebhook(payload, signature); err != nil {
		util.BadRequest(ctx, "Webhook signature verification failed")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
