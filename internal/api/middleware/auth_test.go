package middleware

import (
	"ctchen222/todo-api/internal/auth"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tokens TokenParser) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", Authenticate(tokens), func(c *gin.Context) {
		claims := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID(), "name": claims.Name})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewManager(testKey, "todo-api", "todo-web")
	valid, err := tokens.Issue(3, "alice")
	require.NoError(t, err)
	foreign, err := auth.NewManager("ffffffffffffffffffffffffffffffff", "todo-api", "todo-web").Issue(3, "alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: `{"id":3,"name":"alice"}`},
		{name: "scheme is case-insensitive", header: "bearer " + valid, wantStatus: http.StatusOK, wantBody: `{"id":3,"name":"alice"}`},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic YWxpY2U6c2VjcmV0", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "signed with another key", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
	}

	r := newAuthRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Empty(t, w.Body.String())
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestClaimsFrom_WithoutAuthenticationYieldsUnknownUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, auth.UnknownUserID, ClaimsFrom(c).UserID())
}
