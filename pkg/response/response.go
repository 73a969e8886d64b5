// Package response writes the JSON envelope used by every API route.
package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a machine readable code derived from the HTTP status
// (404 becomes NOT_FOUND) and a message for humans.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// NoContent sends the headers right away; the body stays empty.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// Fail writes an error envelope for status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Error: &ErrorInfo{Code: StatusCode(status), Message: message}})
}

// StatusCode turns the status text into an upper snake case code.
func StatusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	text = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text)
	return strings.ToUpper(text)
}

func BadRequest(c *gin.Context, message string) { Fail(c, http.StatusBadRequest, message) }
func Unauthorized(c *gin.Context, message string) { Fail(c, http.StatusUnauthorized, message) }
func Forbidden(c *gin.Context, message string) { Fail(c, http.StatusForbidden, message) }
func NotFound(c *gin.Context, message string) { Fail(c, http.StatusNotFound, message) }
func Conflict(c *gin.Context, message string) { Fail(c, http.StatusConflict, message) }
func InternalError(c *gin.Context, message string) { Fail(c, http.StatusInternalServerError, message) }
