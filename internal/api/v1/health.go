package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a basic liveness response.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
