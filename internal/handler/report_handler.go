package handler

import (
	"errors"
	"net/http"

	"dentalclinic/internal/billing"
	"dentalclinic/internal/middleware"
	"dentalclinic/internal/service"
	"dentalclinic/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/financial", middleware.RequireRole("admin"), h.GetFinancialReport)
	}
}

// GetFinancialReport builds the period revenue/expense/profit report
// @Summary      Financial report
// @Description  Aggregates revenue, expenses and profit with category, method and monthly breakdowns
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        period  query     string  false  "month (default), quarter, year or custom"
// @Param        from    query     string  false  "Start date for custom period (YYYY-MM-DD)"
// @Param        to      query     string  false  "End date for custom period, inclusive (YYYY-MM-DD)"
// @Success      200     {object}  response.Response{data=model.FinancialReport}
// @Failure      400     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Router       /api/reports/financial [get]
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	filter := service.ReportFilter{
		Period: c.DefaultQuery("period", billing.PeriodMonth),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	report, err := h.reportService.GenerateFinancialReport(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrInvalidPeriod) {
			status = http.StatusBadRequest
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
