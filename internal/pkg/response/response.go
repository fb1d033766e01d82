package response

import "github.com/gin-gonic/gin"

// Every endpoint answers the same envelope so clients can branch on the
// success flag instead of inspecting status codes. The typed structs keep
// the wire shape stable across handlers.

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

// ErrorWithDetails carries a field-level breakdown, typically the
// validator's field -> problem map.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message, Details: details}})
}
