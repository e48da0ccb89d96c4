package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schooltrip_tracker/internal/services"
)

// respondServiceError translates the core's typed errors into HTTP statuses:
// validation 400, conflict 409, not found 404, precondition 412.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		conflict     *services.ConflictError
		notFound     *services.NotFoundError
		precondition *services.PreconditionError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Reason})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Reason})
	case errors.As(err, &precondition):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": precondition.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// actorID pulls the authenticated user ID out of the JWT claims.
func actorID(c *gin.Context) uint {
	return uint(c.MustGet("user_id").(float64))
}
