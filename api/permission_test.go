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

func permissionTestRouter() (*gin.Engine, *PermissionHandler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setCurrentUser(adminUser()))
	return router, NewPermissionHandler()
}

func TestPermissionHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name", "is_deleted"}).
			AddRow(1, 1, "admin", false).
			AddRow(2, 2, "user", false).
			AddRow(3, 3, "client", false))

	router, h := permissionTestRouter()
	router.GET("/permissions", h.List)

	req := httptest.NewRequest("GET", "/permissions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 3)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionHandler_Store(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// Neither the code nor the name is taken.
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `permissions`").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	router, h := permissionTestRouter()
	router.POST("/permissions", h.Store)

	body := `{"code_permission":4,"permission_name":"auditor"}`
	req := httptest.NewRequest("POST", "/permissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "row created successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionHandler_Store_CodeTaken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(2, 2, "user"))

	router, h := permissionTestRouter()
	router.POST("/permissions", h.Store)

	body := `{"code_permission":2,"permission_name":"auditor"}`
	req := httptest.NewRequest("POST", "/permissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "this permission code already exists in the system", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionHandler_Store_NameTaken(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(2, 2, "user"))

	router, h := permissionTestRouter()
	router.POST("/permissions", h.Store)

	body := `{"code_permission":9,"permission_name":"user"}`
	req := httptest.NewRequest("POST", "/permissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "this permission name already exists in the system", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
