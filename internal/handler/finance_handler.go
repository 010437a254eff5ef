package handler

import (
	"net/http"

	"dentalclinic/internal/middleware"
	"dentalclinic/internal/service"
	"dentalclinic/pkg/response"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (h *FinanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	finance := router.Group("/api/finance")
	{
		finance.GET("/summary", middleware.RequireRole("admin"), h.GetSummary)
		finance.GET("/balances", middleware.RequireRole("admin"), h.GetOutstandingBalances)
		finance.GET("/receivables", middleware.RequireRole("admin"), h.GetReceivablesForecast)
	}
}

// GetSummary returns the dashboard totals
// @Summary      Finance summary
// @Description  Recognized revenue, expenses, balance and outstanding total
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.FinanceSummary}
// @Failure      500  {object}  response.Response
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetOutstandingBalances returns per-patient balances
// @Summary      Outstanding balances
// @Description  What each patient still owes across unsettled invoices
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.OutstandingBalance}
// @Failure      500  {object}  response.Response
// @Router       /api/finance/balances [get]
func (h *FinanceHandler) GetOutstandingBalances(c *gin.Context) {
	balances, err := h.financeService.OutstandingBalances(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, balances))
}

// GetReceivablesForecast returns future credit-card installments by month
// @Summary      Receivables forecast
// @Description  Pending credit-card installments bucketed by due month
// @Tags         finance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.ReceivableForecast}
// @Failure      500  {object}  response.Response
// @Router       /api/finance/receivables [get]
func (h *FinanceHandler) GetReceivablesForecast(c *gin.Context) {
	forecast, err := h.financeService.ReceivablesForecast(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, forecast))
}
