package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

// respondError maps typed errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		vErr  *types.ValidationError
		aErr  *types.AuthError
		nfErr *types.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		body := gin.H{"error": vErr.Message}
		if vErr.Field != "" {
			body["field"] = vErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &aErr):
		status := http.StatusUnauthorized
		if aErr.Forbidden {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": aErr.Message})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// bindError reports a request body that failed to bind or validate.
func bindError(c *gin.Context, err error) {
	respondError(c, types.NewValidationError("", err.Error()))
}
