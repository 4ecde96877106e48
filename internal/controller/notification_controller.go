package controller

import (
	"errors"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
	Hub                 *service.NotificationHub
}

func NewNotificationController(notificationService *service.NotificationService, hub *service.NotificationHub) *NotificationController {
	return &NotificationController{
		NotificationService: notificationService,
		Hub:                 hub,
	}
}

func (c *NotificationController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	notifications, err := c.NotificationService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.NotificationService.MarkRead(id, claims.UserID); err != nil {
		if errors.Is(err, util.ErrNotificationNotFound) {
			util.NotFound(ctx, "Notification not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"read": true})
}

func (c *NotificationController) ClearAll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.NotificationService.ClearAll(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": true})
}

// Connect upgrades to a WebSocket for live notification delivery. Token auth
// already ran in the middleware chain, via the query string for browser
// WebSocket clients.
func (c *NotificationController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID)
}
