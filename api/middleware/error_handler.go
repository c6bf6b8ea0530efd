// api/middleware/error_handler.go
package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Annany2002/recipe-backend/internal/auth"
	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers attach errors with c.Error and return; the last one decides the response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		statusCode, userMessage := classify(err)

		fields := logrus.Fields{
			"requestId": RequestIDFrom(c),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    statusCode,
		}
		if statusCode >= http.StatusInternalServerError {
			customLog.WithFields(fields).Errorf("ErrorHandler: Unhandled error type %T: %v", err, err)
		} else {
			customLog.WithFields(fields).Warnf("ErrorHandler: %v", err)
		}

		if c.Writer.Written() {
			customLog.WithFields(fields).Warn("ErrorHandler: Response already written before handling error.")
			return
		}
		c.AbortWithStatusJSON(statusCode, gin.H{"error": userMessage, "requestId": RequestIDFrom(c)})
	}
}

// classify maps an error onto a status code and a message safe to return.
func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &validationErrs):
		for _, fe := range validationErrs {
			customLog.Debugf("Validation Error: Field %s failed on %s", fe.Field(), fe.Tag())
		}
		return http.StatusBadRequest, "Validation failed. Please check your input."
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "Request body is not valid JSON for this endpoint."
	case errors.Is(err, core.ErrInvalidUpdates):
		return http.StatusBadRequest, "Invalid updates!"
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrInvalidQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest, "Unable to login."

	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Authentication token has expired."
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenClaimsInvalid),
		errors.Is(err, auth.ErrUnexpectedSigningMethod),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "Please authenticate."

	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "You can only change your own recipes."

	case errors.Is(err, storage.ErrEmailExists),
		errors.Is(err, storage.ErrRecipeExists),
		errors.Is(err, storage.ErrIngredientExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrRecipeNotFound),
		errors.Is(err, storage.ErrIngredientNotFound),
		errors.Is(err, storage.ErrTokenNotFound),
		errors.Is(err, storage.ErrNoRecipes),
		errors.Is(err, storage.ErrNoIngredients),
		errors.Is(err, storage.ErrNoSearchResults):
		return http.StatusNotFound, err.Error()

	default:
		return http.StatusInternalServerError, "An unexpected internal server error occurred."
	}
}
