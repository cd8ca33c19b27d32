package handler

import (
	"errors"
	"net/http"

	"finance-ledger-backend/internal/logger"
	"finance-ledger-backend/internal/services/importer"

	"github.com/gin-gonic/gin"
)

// errorResponder writes the `{message, error?}` failure body. The error field
// carries the underlying cause and is left out in production.
type errorResponder struct {
	production bool
}

func (r errorResponder) fail(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil && !r.production {
		body["error"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.AbortWithStatusJSON(status, body)
}

// failImport maps an import pipeline error onto an HTTP status.
func (r errorResponder) failImport(c *gin.Context, err error) {
	if errors.Is(err, importer.ErrBatchNotFound) {
		r.fail(c, http.StatusNotFound, "Import batch not found", nil)
		return
	}

	var ie *importer.Error
	if !errors.As(err, &ie) {
		r.fail(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	var cause error
	if ie.Err != nil {
		cause = errors.New(ie.Cause())
	}
	switch ie.Kind {
	case importer.Validation, importer.Parse:
		r.fail(c, http.StatusBadRequest, ie.Message, cause)
	default:
		r.fail(c, http.StatusInternalServerError, ie.Message, cause)
	}
}
