// Package envelope writes the uniform {success, message, data} response body.
package envelope

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes the error envelope for err and aborts the chain. Store
// failures are logged with their cause and reported generically.
func Fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.Printf("[http] %s %s failed status=%d err=%v", c.Request.Method, c.FullPath(), status, err)
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: apperr.PublicMessage(err)})
}

// FailWith writes an error envelope with an explicit status and payload.
func FailWith(c *gin.Context, status int, message string, data any) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Data: data})
}
