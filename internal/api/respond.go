package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: status < 400, Message: message, Data: data})
}

// respondError maps the error taxonomy onto status codes and the uniform
// envelope. Internal details are logged, never leaked.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)

	message := "internal server error"
	if kind != apperr.KindInternal {
		message = publicMessage(err)
	}
	if status >= 500 {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}

	c.JSON(status, Response{Success: false, Message: message})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindDuplicate:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden, apperr.KindSelfSave:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the taxonomy message without any wrapped cause.
func publicMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
