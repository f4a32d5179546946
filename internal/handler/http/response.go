package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

// ResponseError is the error envelope every failure is shaped into.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError writes an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message, errorCode string, logger *zap.Logger) {
	logger.Error("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_message", message),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

// translator is the single boundary turning domain errors into HTTP
// responses. In production shape, anything that is not an AppError is
// replaced by a generic message so internals never leak.
type translator struct {
	logger     *zap.Logger
	production bool
}

func (t *translator) handle(c *gin.Context, err error) {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		RespondWithError(c, appErr.StatusCode, appErr.Message, appErr.Code, t.logger)
		return
	}

	switch {
	case domainErrors.IsConflict(err):
		RespondWithError(c, http.StatusBadRequest, err.Error(), domainErrors.CodeUsernameExists, t.logger)
	case domainErrors.IsUnauthorized(err):
		RespondWithError(c, http.StatusUnauthorized, err.Error(), domainErrors.CodeUnauthorized, t.logger)
	case domainErrors.IsNotFound(err):
		RespondWithError(c, http.StatusNotFound, err.Error(), domainErrors.CodeUserNotFound, t.logger)
	default:
		message := "Internal Server Error"
		if !t.production && err != nil {
			message = err.Error()
		}
		t.logger.Error("Unhandled error", zap.Error(err),
			zap.String("path", c.Request.URL.Path), zap.String("method", c.Request.Method))
		c.JSON(http.StatusInternalServerError, ResponseError{Error: message, Code: domainErrors.CodeInternal})
	}
}

func (t *translator) badRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, domainErrors.CodeValidationError, t.logger)
}
