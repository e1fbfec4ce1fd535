package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_EndIsExclusiveNextDay(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?start_date=2024-01-01&end_date=2024-01-31", nil)

	start, end, ok := dateRange(c)
	require.True(t, ok)
	assert.True(t, start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, end.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)))
	// 23:59:59.5 仍在区间内
	assert.True(t, time.Date(2024, 1, 31, 23, 59, 59, 500_000_000, time.Local).Before(*end))
	assert.Equal(t, "2024-01-31", lastDay(*end).Format(dateLayout))
}

func TestPeriod_DefaultsToCurrentMonth(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	start, end, ok := period(c)
	require.True(t, ok)
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, 1, end.Day())
	assert.True(t, end.Equal(start.AddDate(0, 1, 0)))
}

func TestPeriod_SingleDay(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?start_date=2024-03-05&end_date=2024-03-05", nil)

	start, end, ok := period(c)
	require.True(t, ok)
	assert.True(t, end.Equal(start.AddDate(0, 0, 1)))
}

func TestPeriod_EndBeforeStart(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?start_date=2024-03-05&end_date=2024-03-04", nil)

	_, _, ok := period(c)
	assert.False(t, ok)
	assert.Equal(t, 400, w.Code)
}
