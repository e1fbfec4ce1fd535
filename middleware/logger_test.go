package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestLogger(log))
	router.GET("/ping", func(c *gin.Context) {
		GetLogger(c).Info("inside")
		c.String(200, "pong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	requestID := w.Header().Get("X-Request-ID")
	assert.Len(t, requestID, 36)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, requestID, entries[0].Data["request_id"])
	assert.Equal(t, "/ping", entries[1].Data["path"])
	assert.Equal(t, 200, entries[1].Data["status"])
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)

	// 沿用上游传入的 request id
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, "abc-123", w2.Header().Get("X-Request-ID"))
}

func TestGetLogger_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, logrus.StandardLogger(), GetLogger(c))
}
