package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportController serves the admin analytics endpoints. Role gating happens
// in the router.
type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

func (c *ReportController) Dashboard(ctx *gin.Context) {
	report, err := c.ReportService.Dashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

func (c *ReportController) Enrollments(ctx *gin.Context) {
	stats, err := c.ReportService.EnrollmentsPerCourse()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func (c *ReportController) Completion(ctx *gin.Context) {
	stats, err := c.ReportService.CompletionRates()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func (c *ReportController) Roles(ctx *gin.Context) {
	rows, err := c.ReportService.RoleDistribution()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

func (c *ReportController) Storage(ctx *gin.Context) {
	report, err := c.ReportService.StorageUsage()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
