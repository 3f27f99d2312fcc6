package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"masha/config"
	"masha/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTestRouter() (*gin.Engine, *UserHandler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setCurrentUser(adminUser()))
	email := service.NewEmailService(&config.EmailConfig{Enabled: false})
	return router, NewUserHandler(email)
}

func TestUserHandler_Store(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// Resolve the permission code to its row.
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(2, 2, "user"))

	// No live user and no revivable soft-deleted user.
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"1234567","phone_number":"0512345678","employee_type":1,"permission_code":2}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "row created successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_Conflict(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(2, 2, "user"))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "personal_number"}).
			AddRow(10, "s1234567"))

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"1234567","phone_number":"0512345678","employee_type":1,"permission_code":2}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "this user already exists in the system", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_RevivesDeletedUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(2, 2, "user"))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "personal_number", "is_deleted"}).
			AddRow(10, "s1234567", true))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"1234567","phone_number":"0512345678","employee_type":1,"permission_code":2}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Store_InvalidPersonalNumber(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"12345","phone_number":"0512345678","employee_type":1,"permission_code":2}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "personal_number must be exactly 7 digits", resp["message"])
}

func TestUserHandler_Store_InvalidPhone(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"1234567","phone_number":"0312345678","employee_type":1,"permission_code":2}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestUserHandler_Store_UnknownPermissionCode(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router, h := userTestRouter()
	router.POST("/users", h.Store)

	body := `{"name":"Israel Israeli","personal_number":"1234567","phone_number":"0512345678","employee_type":1,"permission_code":9}`
	req := httptest.NewRequest("POST", "/users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "this permission does not exist in the system", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_SetPermission(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// The submitted code maps to permission row 3, which is what the
	// foreign key must receive.
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(3, 3, "client"))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_deleted"}).
			AddRow(10, "Israel Israeli", false))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router, h := userTestRouter()
	router.PUT("/users/:id", h.SetPermission)

	body := `{"code_permission":3}`
	req := httptest.NewRequest("PUT", "/users/10", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_SetPermission_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code_permission", "permission_name"}).
			AddRow(3, 3, "client"))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router, h := userTestRouter()
	router.PUT("/users/:id", h.SetPermission)

	body := `{"code_permission":3}`
	req := httptest.NewRequest("PUT", "/users/99", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Search_ByName(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "personal_number", "permission_id", "is_deleted"}).
			AddRow(10, "Israel Israeli", "s1234567", 2, false))
	mock.ExpectQuery("SELECT .* FROM `permissions`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "permission_name"}).
			AddRow(2, "user"))

	router, h := userTestRouter()
	router.GET("/users/:search_string", h.Search)

	req := httptest.NewRequest("GET", "/users/Israel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_deleted"}).
			AddRow(10, "Israel Israeli", false))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router, h := userTestRouter()
	router.DELETE("/users/:id", h.Delete)

	req := httptest.NewRequest("DELETE", "/users/10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "row deleted successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}
