package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/pkg/response"
)

// SettingsHandler handles preferences and backups
type SettingsHandler struct {
	journal *service.JournalService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(journal *service.JournalService) *SettingsHandler {
	return &SettingsHandler{
		journal: journal,
	}
}

// GetPreferences returns the display preferences
// GET /api/v1/preferences
func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	response.Success(c, h.journal.GetPreferences())
}

// UpdatePreferences replaces the display preferences
// PUT /api/v1/preferences
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	saved, err := h.journal.UpdatePreferences(c.Request.Context(), prefs)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, saved)
}

// ExportBackup downloads the full journal
// GET /api/v1/backup
func (h *SettingsHandler) ExportBackup(c *gin.Context) {
	data, err := h.journal.ExportBackup()
	if err != nil {
		writeError(c, err)
		return
	}

	response.Attachment(c, h.journal.BackupFilename(), "application/json", data)
}

// RestoreBackup replaces the journal with an uploaded backup
// POST /api/v1/backup/restore
func (h *SettingsHandler) RestoreBackup(c *gin.Context) {
	body, err := uploadedBody(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.journal.RestoreBackup(c.Request.Context(), raw)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// RegisterRoutes registers settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.GetPreferences)
	rg.PUT("/preferences", h.UpdatePreferences)
	rg.GET("/backup", h.ExportBackup)
	rg.POST("/backup/restore", h.RestoreBackup)
}
