package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inhibitTestRouter() (*gin.Engine, *InhibitHandler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setCurrentUser(adminUser()))
	return router, NewInhibitHandler()
}

func TestInhibitHandler_Store(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `inhibits`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router, h := inhibitTestRouter()
	router.POST("/inhibits", h.Store)

	body := `{"inhibit_ta":"TA-1","inhibit_mrahs":"MR-2","activ_required":"review","impacted_tasks":"rollout","comment":"pending parts","year":2024,"month":5}`
	req := httptest.NewRequest("POST", "/inhibits", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "row created successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInhibitHandler_MassDelete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count.* FROM `inhibits`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("UPDATE `inhibits`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	router, h := inhibitTestRouter()
	router.DELETE("/inhibits/massdelete", h.MassDelete)

	body := `{"deleted_ids":[3,4]}`
	req := httptest.NewRequest("DELETE", "/inhibits/massdelete", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rows deleted successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInhibitHandler_MassDelete_UnknownID(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// Only one of the two ids exists, so nothing may be deleted.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count.* FROM `inhibits`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	router, h := inhibitTestRouter()
	router.DELETE("/inhibits/massdelete", h.MassDelete)

	body := `{"deleted_ids":[3,99]}`
	req := httptest.NewRequest("DELETE", "/inhibits/massdelete", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "this row does not exist in the system", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInhibitHandler_MassDelete_EmptyList(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router, h := inhibitTestRouter()
	router.DELETE("/inhibits/massdelete", h.MassDelete)

	body := `{"deleted_ids":[]}`
	req := httptest.NewRequest("DELETE", "/inhibits/massdelete", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestInhibitHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `inhibits`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router, h := inhibitTestRouter()
	router.DELETE("/inhibits/:id", h.Delete)

	req := httptest.NewRequest("DELETE", "/inhibits/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
