package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"finance-ledger-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(buf)

	r := gin.New()
	r.Use(RequestID(log), Logger(log))
	r.GET("/ping", func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())
		log.Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "inside handler")
	assert.Contains(t, buf.String(), "HTTP request")
	assert.Contains(t, buf.String(), "req-42")
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(logger.NewWithWriter(&bytes.Buffer{})))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
