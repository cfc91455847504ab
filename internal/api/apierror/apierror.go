// Package apierror renders the JSON body used by every failure response.
package apierror

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	TitleUnauthorized = "Unauthorized"
	TitleForbidden    = "Forbidden"
	TitleAccessDenied = "Access Denied"
	TitleNotFound     = "Resource Not Found"
	TitleConflict     = "Conflict"
	TitleValidation   = "Validation Error"
	TitleBadRequest   = "Bad Request"
	TitleServerError  = "Server Error"
)

type Response struct {
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp int64             `json:"timestamp"`
	Path      string            `json:"path"`
}

func New(c *gin.Context, status int, title, message string) Response {
	return Response{
		Status:    status,
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
		Path:      c.Request.URL.Path,
	}
}

// Abort writes the error body and stops the handler chain.
func Abort(c *gin.Context, status int, title, message string) {
	c.AbortWithStatusJSON(status, New(c, status, title, message))
}

// AbortValidation writes a 400 carrying per-field messages.
func AbortValidation(c *gin.Context, fields map[string]string) {
	resp := New(c, http.StatusBadRequest, TitleValidation, "Request validation failed")
	resp.Details = fields
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
