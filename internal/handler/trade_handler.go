package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/pkg/response"
)

// maxUploadBytes bounds statement and backup uploads
const maxUploadBytes = 32 << 20

// TradeHandler handles trade API requests
type TradeHandler struct {
	journal *service.JournalService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(journal *service.JournalService) *TradeHandler {
	return &TradeHandler{
		journal: journal,
	}
}

// GetTrades lists the trades of an account in stored order
// GET /api/v1/trades?account=
func (h *TradeHandler) GetTrades(c *gin.Context) {
	trades, err := h.journal.ListTrades(c.Query("account"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, trades)
}

// GetLog lists trades newest first with an optional symbol search
// GET /api/v1/trades/log?account=&search=&page=&page_size=
func (h *TradeHandler) GetLog(c *gin.Context) {
	trades, err := h.journal.Log(c.Query("account"), c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, response.Paginate(trades, response.ParsePage(c)))
}

// GetTrade returns a single trade
// GET /api/v1/trades/:id
func (h *TradeHandler) GetTrade(c *gin.Context) {
	trade, err := h.journal.GetTrade(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, trade)
}

// CreateTrade records a trade
// POST /api/v1/trades
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req service.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.journal.CreateTrade(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateTrade replaces a trade's fields
// PUT /api/v1/trades/:id
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	var req service.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.journal.UpdateTrade(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteTrade removes a trade
// DELETE /api/v1/trades/:id
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	if err := h.journal.DeleteTrade(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "trade deleted"})
}

// ImportStatement imports a broker statement, sent either as the multipart
// field "file" or as the raw request body
// POST /api/v1/trades/import?account=
func (h *TradeHandler) ImportStatement(c *gin.Context) {
	body, err := uploadedBody(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer body.Close()

	result, err := h.journal.ImportStatement(c.Request.Context(), c.Query("account"), body)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// uploadedBody returns the multipart "file" field when present, otherwise the
// request body
func uploadedBody(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if fh, err := c.FormFile("file"); err == nil {
		return fh.Open()
	}
	return c.Request.Body, nil
}

// RegisterRoutes registers trade routes
func (h *TradeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trades := rg.Group("/trades")
	{
		trades.GET("", h.GetTrades)
		trades.GET("/log", h.GetLog)
		trades.POST("", h.CreateTrade)
		trades.POST("/import", h.ImportStatement)
		trades.GET("/:id", h.GetTrade)
		trades.PUT("/:id", h.UpdateTrade)
		trades.DELETE("/:id", h.DeleteTrade)
	}
}
