package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyflow/internal/config"
)

func memoryConfig(redisAddr string) *config.Config {
	return &config.Config{
		Port:               "0",
		RedisAddr:          redisAddr,
		PersistenceBackend: config.BackendMemory,
		HostUsername:       "admin",
		HostPassword:       "pw",
		JWTSecret:          "secret",
		SessionTTL:         time.Hour,
	}
}

func TestNewMemoryWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	a, err := New(context.Background(), memoryConfig(mr.Addr()))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.SessionCache)
	assert.NotNil(t, a.BoardCache)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/catalogs/default/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, len(mr.Keys()) > 0, "session state written through to redis")
}

func TestNewMemoryWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), memoryConfig("127.0.0.1:1"))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.SessionCache)
	assert.Nil(t, a.BoardCache)
}

func TestNewSQLite(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig(mr.Addr())
	cfg.PersistenceBackend = config.BackendSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "progress.db")

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = os.Stat(cfg.SQLitePath)
	assert.NoError(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig("127.0.0.1:1")
	cfg.PersistenceBackend = "postgres"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewLoadsCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Custom
themes:
  - id: only
    title: Only theme
questions:
  - id: x
    themeId: only
    type: open-ended
    text: Anything?
`), 0o644))

	cfg := memoryConfig("127.0.0.1:1")
	cfg.CatalogPath = path
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	c, err := a.CatalogService.GetByID(context.Background(), "h", "default")
	require.NoError(t, err)
	assert.Equal(t, "Custom", c.Title)

	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
