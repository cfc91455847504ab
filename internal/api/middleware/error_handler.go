package middleware

import (
	"errors"
	"net/http"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Known errors map to their status; anything else is logged and hidden
// behind a generic 500.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var verr *services.ValidationError
		if errors.As(err, &verr) {
			apierror.AbortValidation(c, verr.Fields)
			return
		}

		status, title, message := resolveError(err)
		if status == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Msg("unhandled error")
		}
		apierror.Abort(c, status, title, message)
	}
}

func resolveError(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, apierror.TitleUnauthorized, "Invalid username or password"
	case errors.Is(err, services.ErrEmployeeNotFound):
		return http.StatusNotFound, apierror.TitleNotFound, "Employee not found"
	case errors.Is(err, services.ErrEmailExists):
		return http.StatusBadRequest, apierror.TitleConflict, "An employee with this email already exists"
	case errors.Is(err, services.ErrUsernameExists):
		return http.StatusBadRequest, apierror.TitleConflict, "Username is already taken"
	}
	return http.StatusInternalServerError, apierror.TitleServerError, "An unexpected error occurred"
}
