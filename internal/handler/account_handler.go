package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/pkg/response"
)

// AccountHandler handles account API requests
type AccountHandler struct {
	journal *service.JournalService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(journal *service.JournalService) *AccountHandler {
	return &AccountHandler{
		journal: journal,
	}
}

// CreateAccount handles account creation
// POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.journal.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, account)
}

// GetAccounts lists all accounts
// GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	response.Success(c, h.journal.ListAccounts())
}

// DeleteAccount removes an account; its trades and transfers are kept
// DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.journal.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "account deleted"})
}

// SelectAccount makes an account the default for views
// POST /api/v1/accounts/:id/select
func (h *AccountHandler) SelectAccount(c *gin.Context) {
	account, err := h.journal.SelectAccount(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, account)
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.GetAccounts)
		accounts.POST("", h.CreateAccount)
		accounts.DELETE("/:id", h.DeleteAccount)
		accounts.POST("/:id/select", h.SelectAccount)
	}
}
