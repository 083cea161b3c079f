package response

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware writes.
const RequestIDKey = "RequestID"

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response. kind is the machine-readable error class.
func Error(c *gin.Context, code int, message string, kind interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     kind,
		RequestID: requestID(c),
	})
}

// Abort writes an error response and stops the handler chain.
func Abort(c *gin.Context, code int, message string, kind interface{}) {
	Error(c, code, message, kind)
	c.Abort()
}
