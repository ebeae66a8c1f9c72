package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func identityEcho() (*gin.Engine, gin.HandlerFunc) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("firebase_uid")})
	}
	return r, handler
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	r, handler := identityEcho()
	r.GET("/ping", FirebaseOptionalAuthMiddleware(nil), handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid": ""}`, w.Body.String())
}

func TestOptionalAuth_IgnoresNonBearerHeader(t *testing.T) {
	r, handler := identityEcho()
	r.GET("/ping", FirebaseOptionalAuthMiddleware(nil), handler)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid": ""}`, w.Body.String())
}

func TestRequiredAuth_MissingTokenRejected(t *testing.T) {
	r, handler := identityEcho()
	r.GET("/ping", FirebaseAuthMiddleware(nil), handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization token")
}
