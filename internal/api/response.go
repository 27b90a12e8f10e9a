package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard response body for every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Details    any         `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

// Pagination describes the position of a page within a list result.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes page metadata for a total item count.
func NewPagination(page, perPage, total int) *Pagination {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// OK writes a success envelope with status 200.
func OK(c *gin.Context, message string, data any) {
	Success(c, http.StatusOK, message, data)
}

// Created writes a success envelope with status 201.
func Created(c *gin.Context, message string, data any) {
	Success(c, http.StatusCreated, message, data)
}

// Success writes a success envelope with an explicit status.
func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Paginated writes a success envelope carrying page metadata.
func Paginated(c *gin.Context, message string, data any, p *Pagination) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// Fail writes an error envelope from any error, mapping unknown errors to INTERNAL_ERROR.
func Fail(c *gin.Context, err error) {
	apiErr := AsError(err)
	c.JSON(apiErr.Status, Envelope{
		Success:   false,
		Message:   apiErr.Message,
		ErrorCode: apiErr.Code,
		Details:   apiErr.Details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Abort writes an error envelope and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
