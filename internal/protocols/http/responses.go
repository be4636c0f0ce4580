package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/msrishav-28/penpal/pkg/models"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(200, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(201, models.APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(models.StatusOf(err), models.APIResponse{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(400, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(401, models.APIResponse{
		Success:   false,
		Error:     "unauthorized",
		Timestamp: time.Now(),
	})
}
