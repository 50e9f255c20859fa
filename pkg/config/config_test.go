package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("API_BASE_URL", "http://api.test/")
	os.Setenv("ADMIN_CONSOLE_PORT", "9090")
	os.Setenv("TOKEN_STORE", "redis")
	os.Setenv("REDIS_HOST", "redis.test")
	os.Setenv("REDIS_DB", "3")
	os.Setenv("SEARCH_DEBOUNCE", "400ms")
	os.Setenv("QUERY_STALE_TIME", "30s")
	os.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://api.test", cfg.APIBaseURL)
	assert.Equal(t, "9090", cfg.AdminConsolePort)
	assert.Equal(t, "redis", cfg.TokenStore)
	assert.Equal(t, "redis.test", cfg.RedisHost)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 400*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 30*time.Second, cfg.QueryStaleTime)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)

	// Cleanup
	os.Unsetenv("API_BASE_URL")
	os.Unsetenv("ADMIN_CONSOLE_PORT")
	os.Unsetenv("TOKEN_STORE")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("SEARCH_DEBOUNCE")
	os.Unsetenv("QUERY_STALE_TIME")
	os.Unsetenv("ALLOWED_ORIGINS")
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("SEARCH_DEBOUNCE")
	os.Unsetenv("API_TIMEOUT")
	os.Unsetenv("PAGE_SIZE")
	os.Unsetenv("TOKEN_STORE")
	os.Unsetenv("QUERY_STALE_TIME")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "memory", cfg.TokenStore)
	assert.Equal(t, time.Duration(0), cfg.QueryStaleTime)
}

func TestPortFor(t *testing.T) {
	cfg := &Config{AdminConsolePort: "8090", ArtistConsolePort: "8091"}
	assert.Equal(t, "8090", cfg.PortFor("admin"))
	assert.Equal(t, "8091", cfg.PortFor("artist"))

	cfg.ServerPort = "7000"
	assert.Equal(t, "7000", cfg.PortFor("artist"))
}
