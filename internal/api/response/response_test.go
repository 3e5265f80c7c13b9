package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"id": 0})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":0}`, w.Body.String())
}

func TestAbort_NoBodyAndErrorAttached(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/items/1", nil)

	InternalError(c, errors.New("db down"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
}
