package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketHandler_LastUserUpdate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	updatedAt := time.Date(2024, 5, 17, 14, 30, 45, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM `markets`").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "updated_by"}).
			AddRow(updatedAt, 1))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Israel Israeli"))

	router, h := marketTestRouter()
	router.GET("/markets/lastuserupdate", h.LastUserUpdate)

	req := httptest.NewRequest("GET", "/markets/lastuserupdate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-05-17", data["updated_at_date"])
	assert.Equal(t, "14:30:45", data["updated_at_time"])
	user, ok := data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Israel Israeli", user["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketHandler_LastUserUpdate_NoRows(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `markets`").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at", "updated_by"}))

	router, h := marketTestRouter()
	router.GET("/markets/lastuserupdate", h.LastUserUpdate)

	req := httptest.NewRequest("GET", "/markets/lastuserupdate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no user found", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
