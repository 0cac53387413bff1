package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/pkg/response"
)

// TransferHandler handles deposit and withdrawal API requests
type TransferHandler struct {
	journal *service.JournalService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(journal *service.JournalService) *TransferHandler {
	return &TransferHandler{
		journal: journal,
	}
}

// GetTransfers lists the transfers of an account
// GET /api/v1/transfers?account=
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	transfers, err := h.journal.ListTransfers(c.Query("account"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, transfers)
}

// CreateTransfer records a deposit or withdrawal
// POST /api/v1/transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	transfer, err := h.journal.CreateTransfer(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, transfer)
}

// DeleteTransfer removes a transfer
// DELETE /api/v1/transfers/:id
func (h *TransferHandler) DeleteTransfer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid transfer id")
		return
	}

	if err := h.journal.DeleteTransfer(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "transfer deleted"})
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.GET("", h.GetTransfers)
		transfers.POST("", h.CreateTransfer)
		transfers.DELETE("/:id", h.DeleteTransfer)
	}
}
