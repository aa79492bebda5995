package handler

import (
	"errors"
	"net/http"

	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

// writeError renders err as {"error": message} with the status of its kind.
// Anything that is not a known client error is logged and hidden.
func writeError(c *gin.Context, log logging.Logger, err error) {
	status, fallback := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, model.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(status, model.ErrorResponse{Error: service.Message(err, fallback)})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "already exists"
	default:
		return http.StatusInternalServerError, "server error"
	}
}
