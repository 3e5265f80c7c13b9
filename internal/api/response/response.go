package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes payload as JSON with status 200.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Created writes payload as JSON with status 201 and a Location of "/".
func Created(c *gin.Context, payload any) {
	c.Header("Location", "/")
	c.JSON(http.StatusCreated, payload)
}

// Empty writes a bodiless 200.
func Empty(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Abort ends the handler chain with a bodiless status. err, when not nil,
// is attached to the context so the request log and span pick it up.
func Abort(c *gin.Context, code int, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatus(code)
}

// InternalError aborts with 500 for failures the handlers do not expect,
// such as storage errors.
func InternalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	Abort(c, http.StatusInternalServerError, err)
}
