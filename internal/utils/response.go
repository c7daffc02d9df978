package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/apperrors"
)

// body builds the {msg, ...payload} envelope. An empty message is omitted.
func body(message string, payload gin.H) gin.H {
	out := gin.H{}
	for k, v := range payload {
		out[k] = v
	}
	if message != "" {
		out["msg"] = message
	}
	return out
}

// Success sends a 200 response.
func Success(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusOK, body(message, payload))
}

// Created sends a 201 response.
func Created(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusCreated, body(message, payload))
}

// Error sends an expected failure as {msg}.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"msg": message})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalServerError sends a 500 response carrying the underlying error text.
func InternalServerError(c *gin.Context, message string, err error) {
	out := gin.H{"msg": message}
	if err != nil {
		out["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, out)
}

// RespondError writes err using the status of its kind. Unexpected errors
// are attached to the gin context so the request logger records them.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Kind == apperrors.Unexpected {
		_ = c.Error(err)
		InternalServerError(c, appErr.Message, appErr.Err)
		return
	}
	Error(c, appErr.StatusCode(), appErr.Message)
}
