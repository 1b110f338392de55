package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pushup-tracker/internal/service"
)

// fail writes the error payload the web client expects.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// failFromErr maps domain conditions to statuses: validation and the undo
// no-op are 400, a create-only conflict is 409, anything else is a server
// error whose details stay out of the response.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, service.ErrNothingToUndo):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("api error: %v", err)
		fail(c, http.StatusInternalServerError, "server error")
	}
}
