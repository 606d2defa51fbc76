package wire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jenga-prompts-api/internal/config"
	"jenga-prompts-api/internal/infrastructure/persistence/redis"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "jenga-prompts-api", Version: "test", Env: "development"},
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers:       map[string]config.ProviderConfig{"gemini": {Type: "gemini", Model: "gemini-2.0-flash"}},
		},
	}
}

func TestProvideRateLimiter(t *testing.T) {
	assert.IsType(t, &redis.LocalRateLimiter{}, ProvideRateLimiter(nil))

	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Cache.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: mustPort(t, mr)}

	client, cleanup, err := ProvideRedisClientOptional(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, client)
	assert.IsType(t, &redis.RateLimiter{}, ProvideRateLimiter(client))
}

func TestProvideRedisClientOptionalFallsBack(t *testing.T) {
	cfg := testConfig()
	client, cleanup, err := ProvideRedisClientOptional(context.Background(), cfg)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, client)

	cfg.Cache.Redis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
	client, cleanup, err = ProvideRedisClientOptional(context.Background(), cfg)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, client)
}

func TestProvideTemplateSource(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, ProvideTemplateSource(cfg))
	cfg.Prompt.FrameworkDir = t.TempDir()
	assert.NotNil(t, ProvideTemplateSource(cfg))
}

func TestInitializeApp(t *testing.T) {
	r, cleanup, err := InitializeApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 未配置凭证时未就绪
	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInitializeAppBadSpecsFile(t *testing.T) {
	cfg := testConfig()
	cfg.Prompt.ModelSpecsFile = "/nonexistent/model_specs.yaml"
	_, _, err := InitializeApp(context.Background(), cfg)
	assert.Error(t, err)
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	var port int
	_, err := fmt.Sscanf(mr.Port(), "%d", &port)
	require.NoError(t, err)
	return port
}
