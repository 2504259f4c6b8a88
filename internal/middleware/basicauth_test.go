package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BasicAuth("svc", "secret"))
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/health", handler)
	router.GET("/api/GetCountries", handler)
	router.POST("/api/VerifyOTP", handler)
	return router
}

func TestBasicAuth_RejectsMissingCredentials(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetCountries", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
}

func TestBasicAuth_RejectsWrongPassword(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetCountries", nil)
	req.SetBasicAuth("svc", "wrong")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasicAuth_AllowsValidCredentials(t *testing.T) {
	router := newAuthRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/GetCountries", nil)
	req.SetBasicAuth("svc", "secret")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth_OpenPathsSkipAuth(t *testing.T) {
	router := newAuthRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodPost, "/api/VerifyOTP"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
	}
}
