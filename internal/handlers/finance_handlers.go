package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gamebus_backend/internal/models"
	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FinanceHandler serves the dashboard, Ads, Funnel and Assumptions tables.
type FinanceHandler struct {
	financeService services.FinanceService
}

func NewFinanceHandler(fs services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: fs}
}

func respondFinanceError(c *gin.Context, err error, action string) {
	if errors.Is(err, services.ErrInvalidMonth) || errors.Is(err, services.ErrFinanceValidation) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		return
	}
	utils.LogError(err, "Finance handler: failed to "+action)
	utils.RespondInternal(c, "Failed to "+action+".")
}

// GetMonthlySummary returns the twelve-month rollup.
func (h *FinanceHandler) GetMonthlySummary(c *gin.Context) {
	rows, err := h.financeService.GetMonthlySummary()
	if err != nil {
		respondFinanceError(c, err, "compute monthly summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// GetKPIs returns year-to-date totals; ?month=1..12 overrides the current month.
func (h *FinanceHandler) GetKPIs(c *gin.Context) {
	month := 0
	if s := c.Query("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			n = models.MonthNumber(s)
		}
		if n == 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month value.", "month: "+s))
			return
		}
		month = n
	}
	k, err := h.financeService.GetKPIs(month)
	if err != nil {
		respondFinanceError(c, err, "compute kpis")
		return
	}
	c.JSON(http.StatusOK, k)
}

func (h *FinanceHandler) GetAds(c *gin.Context) {
	rows, err := h.financeService.GetAds()
	if err != nil {
		respondFinanceError(c, err, "fetch ads")
		return
	}
	if rows == nil {
		rows = []models.AdsMonth{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// SaveAds upserts one month of Ads counters.
func (h *FinanceHandler) SaveAds(c *gin.Context) {
	var req services.AdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	row, err := h.financeService.SaveAds(c.Request.Context(), req)
	if err != nil {
		respondFinanceError(c, err, "save ads")
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *FinanceHandler) GetFunnel(c *gin.Context) {
	rows, err := h.financeService.GetFunnel()
	if err != nil {
		respondFinanceError(c, err, "fetch funnel")
		return
	}
	if rows == nil {
		rows = []models.FunnelMonth{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// SaveFunnel upserts one month of Funnel counters.
func (h *FinanceHandler) SaveFunnel(c *gin.Context) {
	var req services.FunnelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	row, err := h.financeService.SaveFunnel(c.Request.Context(), req)
	if err != nil {
		respondFinanceError(c, err, "save funnel")
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *FinanceHandler) GetAssumptions(c *gin.Context) {
	rows, err := h.financeService.GetAssumptions()
	if err != nil {
		respondFinanceError(c, err, "fetch assumptions")
		return
	}
	if rows == nil {
		rows = []models.Assumption{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ReplaceAssumptions overwrites the whole Assumptions table.
func (h *FinanceHandler) ReplaceAssumptions(c *gin.Context) {
	var req services.AssumptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	rows, err := h.financeService.ReplaceAssumptions(c.Request.Context(), req.Rows)
	if err != nil {
		respondFinanceError(c, err, "save assumptions")
		return
	}
	if rows == nil {
		rows = []models.Assumption{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
