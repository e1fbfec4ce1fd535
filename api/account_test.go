package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"moneybook/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var accountColumns = []string{"id", "user_id", "name", "balance", "currency", "is_active", "notes", "created_at", "updated_at"}

func TestAccountHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `accounts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/accounts", NewAccountHandler().Create)

	body := `{"name":"工资卡","balance":"1000.50","currency":"usd"}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, "1000.5", data["balance"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Create_BlankName(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/accounts", NewAccountHandler().Create)

	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(`{"name":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestAccountHandler_Get(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts` WHERE id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(5, 1, "现金", "250.00", "RUB", true, "", time.Now(), time.Now()))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/accounts/:id", NewAccountHandler().Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/accounts/5", nil))

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "现金", data["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Get_OtherUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	router := gin.New()
	router.Use(setUserIDMiddleware(2))
	router.GET("/accounts/:id", NewAccountHandler().Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/accounts/5", nil))

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_InvalidID(t *testing.T) {
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/accounts/:id", NewAccountHandler().Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/accounts/abc", nil))

	assert.Equal(t, 400, w.Code)
}
