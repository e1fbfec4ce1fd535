package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionColumns = []string{"id", "user_id", "date", "amount", "type", "category_id", "account_id", "note", "source", "created_at", "updated_at"}

func TestReportHandler_Summary(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(1, 1, day, "1000.00", "income", nil, 3, "", "manual", day, day).
			AddRow(2, 1, day, "250.00", "expense", nil, 3, "", "manual", day, day))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(3, 1, "工资卡", "750.00", "RUB", true, "", day, day).
			AddRow(4, 1, "现金", "50.00", "RUB", true, "", day, day))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/reports/summary", NewReportHandler().Summary)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/reports/summary?start_date=2024-01-01&end_date=2024-01-31", nil))

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, "1000", summary["income"])
	assert.Equal(t, "250", summary["expense"])
	assert.Equal(t, "750", summary["net"])
	assert.Equal(t, "800", data["total_balance"])
	assert.Equal(t, "2024-01-31", data["end"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportHandler_InvalidRange(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/reports/summary", NewReportHandler().Summary)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/reports/summary?start_date=2024-02-01&end_date=2024-01-01", nil))

	assert.Equal(t, 400, w.Code)
}

func TestReportHandler_Trend_InvalidMonths(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/reports/trend", NewReportHandler().Trend)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/reports/trend?months=-1", nil))

	assert.Equal(t, 400, w.Code)
}
