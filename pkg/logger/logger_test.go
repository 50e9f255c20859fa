package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.sugar)
}

func TestLogger_MultipleCalls(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)

	// Test multiple calls don't panic
	logger.Info("Info 1")
	logger.Error("Error 1")
	logger.Warn("Warn 1")
	logger.Debug("Debug 1")
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	logger.Info("[QUERY] fetched %s in %d ms", "artists", 12)
	logger.Error("[GATEWAY] %s %s returned %d", "PATCH", "/api/v1/admin/content/42/approve", 500)
	logger.Warn("[MUTATION] rolled back %d writes", 2)
}

func TestNewWithConfig_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")
	logger := NewWithConfig(Config{Level: "debug", OutputPath: path})

	logger.Info("hello %s", "file")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
