package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"moneybook/config"
	"moneybook/database"
	"moneybook/logger"
	"moneybook/repository"
	"moneybook/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recurringColumns = []string{"id", "user_id", "start_date", "end_date", "frequency", "amount", "type", "category_id", "account_id", "note", "active", "next_date", "created_at", "updated_at"}

func newTestRecurringHandler() *RecurringHandler {
	store := repository.NewGormStore(database.DB)
	gen := service.NewGenerator(store, config.RecurringConfig{MaxRetries: 2, MaxOccurrencesPerRule: 100}, logger.Discard())
	return NewRecurringHandler(service.NewRecurrings(store, logger.Discard()), gen)
}

func TestRecurringHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `recurrings`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/recurrings", newTestRecurringHandler().Create)

	body := `{"start_date":"2024-01-31","frequency":"monthly","amount":"500","type":"expense","note":"房租"}`
	req := httptest.NewRequest("POST", "/recurrings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["active"])
	assert.Equal(t, data["start_date"], data["next_date"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"未知频率", `{"start_date":"2024-01-01","frequency":"yearly","amount":"5","type":"expense"}`, service.ErrInvalidFrequency.Error()},
		{"金额为零", `{"start_date":"2024-01-01","frequency":"daily","amount":"0","type":"expense"}`, service.ErrInvalidAmount.Error()},
		{"未知类型", `{"start_date":"2024-01-01","frequency":"daily","amount":"5","type":"refund"}`, service.ErrInvalidType.Error()},
		{"结束早于开始", `{"start_date":"2024-02-01","end_date":"2024-01-01","frequency":"daily","amount":"5","type":"income"}`, service.ErrInvalidDateRange.Error()},
	}

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/recurrings", NewRecurringHandler(service.NewRecurrings(nil, logger.Discard()), nil).Create)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/recurrings", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, 400, w.Code)
			assert.Equal(t, tt.msg, decodeResponse(t, w)["message"])
		})
	}
}

func TestRecurringHandler_ResumeExhausted(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `recurrings`").
		WillReturnRows(sqlmock.NewRows(recurringColumns).
			AddRow(4, 1, start, end, "daily", "5.00", "expense", nil, nil, "", false, nil, start, start))
	mock.ExpectRollback()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/recurrings/:id/active", newTestRecurringHandler().SetActive)

	req := httptest.NewRequest("PUT", "/recurrings/4/active", bytes.NewBufferString(`{"active":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, service.ErrRuleExhausted.Error(), decodeResponse(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringHandler_Run_NothingDue(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `recurrings` WHERE user_id = \\? AND active = \\?").
		WillReturnRows(sqlmock.NewRows(recurringColumns))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/recurrings/run", newTestRecurringHandler().Run)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/recurrings/run", nil))

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["created"])
	assert.EqualValues(t, 1, data["attempts"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringHandler_Run_Conflict(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 游标已被其他请求推进，两次尝试都冲突
	next := time.Now().AddDate(0, 0, 1)
	start := next.AddDate(0, 0, -10)
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .* FROM `recurrings`").
			WillReturnRows(sqlmock.NewRows(recurringColumns).
				AddRow(4, 1, start, nil, "daily", "5.00", "expense", nil, nil, "", true, next, start, start))
		mock.ExpectExec("UPDATE `recurrings`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
	}

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/recurrings/run", newTestRecurringHandler().Run)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/recurrings/run", nil))

	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
