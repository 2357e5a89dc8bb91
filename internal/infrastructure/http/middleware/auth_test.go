package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appctx "stockledger/internal/core/context"
)

type fakeValidator struct {
	user *appctx.UserContext
	err  error
}

func (f *fakeValidator) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestAuth_MissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{user: &appctx.UserContext{UserID: "u1"}}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{user: &appctx.UserContext{UserID: "u1"}}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"token-without-scheme", "Basic dXNlcg=="} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{err: errors.New("bad signature")}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidTokenPopulatesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *appctx.UserContext
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{user: &appctx.UserContext{UserID: "u1", Roles: []string{"storekeeper"}}}))
	router.GET("/protected", func(c *gin.Context) {
		seen = appctx.GetUser(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "u1", seen.UserID)
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(Auth(&fakeValidator{user: &appctx.UserContext{UserID: "u1", Roles: []string{"viewer"}}}))
	router.GET("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/view", RequireRole("viewer"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer t")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/view", nil)
	req.Header.Set("Authorization", "Bearer t")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
