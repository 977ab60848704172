package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/apperr"
)

// Response is the uniform envelope of the write-side API.
type Response struct {
	Message string `json:"message"`
}

// Respond writes the envelope with an explicit status.
func Respond(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Message: message})
}

// Fail resolves any error into its envelope via the central mapper.
func Fail(c *gin.Context, err error) {
	status, msg := apperr.Status(err)
	c.JSON(status, Response{Message: msg})
}
