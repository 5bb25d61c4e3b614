package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(requireAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := UserMiddleware(testSecret)
	if requireAdmin {
		mw = AdminMiddleware(testSecret)
	}
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("uid"), "adm": c.GetBool("adm")})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		w := doRequest(newAuthRouter(false), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidUserToken", func(t *testing.T) {
		token, err := Issue(testSecret, "user-1", false, time.Hour)
		require.NoError(t, err)

		w := doRequest(newAuthRouter(false), token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := Issue("other-secret", "user-1", false, time.Hour)
		require.NoError(t, err)

		w := doRequest(newAuthRouter(false), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token, err := Issue(testSecret, "user-1", false, -time.Minute)
		require.NoError(t, err)

		w := doRequest(newAuthRouter(false), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("AdminRequiredRejectsUser", func(t *testing.T) {
		token, err := Issue(testSecret, "user-1", false, time.Hour)
		require.NoError(t, err)

		w := doRequest(newAuthRouter(true), token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AdminPasses", func(t *testing.T) {
		token, err := Issue(testSecret, "admin-1", true, time.Hour)
		require.NoError(t, err)

		w := doRequest(newAuthRouter(true), token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
