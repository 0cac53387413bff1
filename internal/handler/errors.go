package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/importer"
	"github.com/tz-journal/internal/middleware"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/internal/store"
	"github.com/tz-journal/pkg/response"
)

// writeError maps service errors onto the response envelope
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrTradeNotFound),
		errors.Is(err, store.ErrTransferNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, importer.ErrInvalidBackup):
		response.BadRequest(c, err.Error())
	default:
		middleware.LogError("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		response.InternalError(c, err.Error())
	}
}
