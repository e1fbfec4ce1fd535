package api

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagColumns = []string{"id", "user_id", "name", "color", "created_at"}

func TestTagHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `tags` WHERE user_id IS NULL OR user_id = \\? ORDER BY name").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(tagColumns).
			AddRow(3, nil, "travel", "#8b5cf6", now).
			AddRow(5, 1, "work", "#10b981", now))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/tags", NewTagHandler().List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/tags", nil))

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Nil(t, data[0].(map[string]interface{})["user_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagHandler_Create_DefaultColor(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `tags`").
		WillReturnRows(sqlmock.NewRows(tagColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tags`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/tags", NewTagHandler().Create)

	req := httptest.NewRequest("POST", "/tags", bytes.NewBufferString(`{"name":" 出差 "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "出差", data["name"])
	assert.Equal(t, "#8b5cf6", data["color"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagHandler_Create_Duplicate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `tags`").
		WillReturnRows(sqlmock.NewRows(tagColumns).AddRow(3, nil, "travel", "#8b5cf6", time.Now()))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/tags", NewTagHandler().Create)

	req := httptest.NewRequest("POST", "/tags", bytes.NewBufferString(`{"name":"travel"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagHandler_Delete_RemovesLinks(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `tags` WHERE id = \\? AND user_id = \\?").
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM transaction_tags WHERE tag_id = \\?").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/tags/:id", NewTagHandler().Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/tags/5", nil))

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagHandler_Delete_SharedTagNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `tags`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.DELETE("/tags/:id", NewTagHandler().Delete)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/tags/3", nil))

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
