package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// respondErr maps domain errors onto the wire shapes: validation failures as
// 400 {message, field}, missing entities as 404 {message}, everything else as
// a generic 500.
func respondErr(c *gin.Context, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message, "field": ve.Field})
		return
	}
	if apperr.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	_ = c.Error(err) // surfaces in the access log entry
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
