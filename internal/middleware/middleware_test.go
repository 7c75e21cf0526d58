package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/internal/logging"
	"github.com/pageza/recipe-carousel/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *types.TokenClaims
}

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good" {
		return nil, &types.AuthError{Message: "invalid token"}
	}
	return s.claims, nil
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	user := uuid.New()
	v := stubValidator{claims: &types.TokenClaims{UserID: user, Role: "editor"}}

	r := gin.New()
	r.GET("/private", AuthMiddleware(v), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c).String())
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/private", "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "GET", "/private", "Bearer bad").Code)

	w := serve(r, "GET", "/private", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.String(), w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	user := uuid.New()
	v := stubValidator{claims: &types.TokenClaims{UserID: user, Role: "subscriber"}}

	r := gin.New()
	r.GET("/maybe", OptionalAuth(v), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c).String())
	})

	assert.Equal(t, uuid.Nil.String(), serve(r, "GET", "/maybe", "").Body.String())
	assert.Equal(t, uuid.Nil.String(), serve(r, "GET", "/maybe", "Bearer bad").Body.String())
	assert.Equal(t, user.String(), serve(r, "GET", "/maybe", "Bearer good").Body.String())
}

func TestRequireRole(t *testing.T) {
	editor := stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "editor"}}
	subscriber := stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "subscriber"}}

	build := func(v TokenValidator) *gin.Engine {
		r := gin.New()
		r.POST("/recipes", AuthMiddleware(v), RequireRole("editor", "admin"), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return r
	}

	assert.Equal(t, http.StatusCreated, serve(build(editor), "POST", "/recipes", "Bearer good").Code)
	assert.Equal(t, http.StatusForbidden, serve(build(subscriber), "POST", "/recipes", "Bearer good").Code)

	r := gin.New()
	r.POST("/recipes", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusCreated) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, "POST", "/recipes", "").Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/like", NewFeedbackRateLimiter(client, 2, time.Minute).RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, "POST", "/like", "").Code)
	w := serve(r, "POST", "/like", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "POST", "/like", "").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/like", NewFeedbackRateLimiter(client, 1, time.Minute).RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, "POST", "/like", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Error"))

	unlimited := gin.New()
	unlimited.POST("/like", NewFeedbackRateLimiter(nil, 1, time.Minute).RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(unlimited, "POST", "/like", "").Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, logging.RequestIDFromContext(c.Request.Context()))
	})

	w := serve(r, "GET", "/id", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(logging.RequestIDHeader))

	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(logging.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		panic(errors.New("boom"))
	})

	w := serve(r, "GET", "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
