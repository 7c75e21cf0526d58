package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-carousel/backend/config"
	"github.com/pageza/recipe-carousel/backend/internal/testhelpers"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDB(t)
	client, _ := testhelpers.SetupRedis(t)

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"

	srv, err := New(cfg, db, client, nil)
	require.NoError(t, err)

	for path, want := range map[string]int{
		"/health":                    http.StatusOK,
		"/api/v1/recipes":            http.StatusOK,
		"/api/v1/recipes/featured":   http.StatusOK,
		"/recipes":                   http.StatusOK,
		"/api/v1/categories":         http.StatusOK,
		"/api/v1/terms/cuisine_type": http.StatusOK,
		"/nope":                      http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.ShutdownTimeout = time.Second

	srv, err := New(cfg, db, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
