package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"moneybook/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls  []service.RunOptions
	result service.RunResult
}

func (s *stubRunner) Run(ctx context.Context, opts service.RunOptions) service.RunResult {
	s.calls = append(s.calls, opts)
	return s.result
}

func newCatchUpRouter(runner OccurrenceRunner, log *logrus.Logger, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID)
		}
		c.Next()
	})
	router.Use(RecurringCatchUp(runner))
	router.GET("/api/v1/accounts", func(c *gin.Context) {
		c.String(200, "ok")
	})
	return router
}

func TestRecurringCatchUp_RunsForCurrentUser(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := &stubRunner{result: service.RunResult{Created: 2, Rules: 1, Attempts: 1}}
	router := newCatchUpRouter(runner, log, 7)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/accounts", nil))

	assert.Equal(t, 200, w.Code)
	require.Len(t, runner.calls, 1)
	require.NotNil(t, runner.calls[0].UserID)
	assert.Equal(t, uint(7), *runner.calls[0].UserID)
	assert.True(t, runner.calls[0].Cutoff.IsZero())
}

func TestRecurringCatchUp_FailureDoesNotFailRequest(t *testing.T) {
	log, hook := test.NewNullLogger()
	runner := &stubRunner{result: service.RunResult{Attempts: 3, Err: errors.New("db down")}}
	router := newCatchUpRouter(runner, log, 7)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/accounts", nil))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 3, e.Data["attempts"])
		}
	}
	assert.True(t, warned)
}

func TestRecurringCatchUp_SkipsAnonymous(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := &stubRunner{}
	router := newCatchUpRouter(runner, log, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/accounts", nil))

	assert.Equal(t, 200, w.Code)
	assert.Empty(t, runner.calls)
}
