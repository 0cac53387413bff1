package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the envelope
const (
	CodeOK         = 0
	CodeFailure    = -1
	CodeNotFound   = -1003
	CodeConflict   = -1004
	defaultPerPage = 50
	maxPerPage     = 500
)

// Response is the standard API response structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CodeOK, "success", data)
}

// Created sends a 201 created response
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, CodeOK, "created", data)
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, code int, message string) {
	write(c, statusCode, code, message, nil)
}

// BadRequest sends a 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeFailure, message)
}

// NotFound sends a 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict sends a 409 error response
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, CodeConflict, message)
}

// InternalError sends a 500 error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeFailure, message)
}

// Attachment sends raw bytes as a file download
func Attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Page is a requested window of a list
type Page struct {
	Page     int
	PageSize int
}

// ParsePage reads page and page_size from the query. A missing page_size
// returns everything on one page.
func ParsePage(c *gin.Context) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("page_size"))
	switch {
	case err != nil && c.Query("page_size") == "":
		size = 0
	case err != nil || size < 1:
		size = defaultPerPage
	case size > maxPerPage:
		size = maxPerPage
	}
	return Page{Page: page, PageSize: size}
}

// Paginated is the paginated response structure
type Paginated struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Paginate cuts the requested window out of items
func Paginate[T any](items []T, p Page) Paginated {
	total := len(items)
	size := p.PageSize
	if size <= 0 {
		size = total
	}
	out := Paginated{Total: int64(total), Page: p.Page, PageSize: size, Items: []T{}}
	if size == 0 {
		return out
	}
	out.TotalPages = (total + size - 1) / size
	start := (p.Page - 1) * size
	if start < total {
		end := start + size
		if end > total {
			end = total
		}
		out.Items = items[start:end]
	}
	return out
}
