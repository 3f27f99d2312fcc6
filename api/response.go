package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with one of two envelopes: {"data": ...} on
// successful reads and {"message": ...} on errors and write confirmations.

const (
	msgServerError  = "a server error occurred, try again later"
	msgNotPermitted = "user is not allowed to perform this action"
	msgRowNotFound  = "row not found"
)

// Data writes a 200 read response.
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Message writes a message envelope with an arbitrary status.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Created writes a 201 confirmation.
func Created(c *gin.Context, message string) {
	Message(c, http.StatusCreated, message)
}

// BadRequest writes a 400 error.
func BadRequest(c *gin.Context, message string) {
	Message(c, http.StatusBadRequest, message)
}

// NotFound writes a 404 error.
func NotFound(c *gin.Context, message string) {
	Message(c, http.StatusNotFound, message)
}

// Conflict writes a 409 error.
func Conflict(c *gin.Context, message string) {
	Message(c, http.StatusConflict, message)
}

// Forbidden writes a 403 error.
func Forbidden(c *gin.Context) {
	Message(c, http.StatusForbidden, msgNotPermitted)
}

// InternalError writes a 500 error with a generic message; the real error
// is logged server-side before calling this.
func InternalError(c *gin.Context) {
	Message(c, http.StatusInternalServerError, msgServerError)
}
