package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/pkg/response"
)

// ReportHandler serves the derived dashboard and calendar views
type ReportHandler struct {
	journal *service.JournalService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(journal *service.JournalService) *ReportHandler {
	return &ReportHandler{
		journal: journal,
	}
}

// GetDashboard returns the financial summary and equity curve
// GET /api/v1/dashboard?account=
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dash, err := h.journal.Dashboard(c.Query("account"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, dash)
}

// GetCalendar returns the month grid
// GET /api/v1/calendar?account=&month=YYYY-MM
func (h *ReportHandler) GetCalendar(c *gin.Context) {
	view, err := h.journal.Calendar(c.Query("account"), c.Query("month"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, view)
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/calendar", h.GetCalendar)
}
