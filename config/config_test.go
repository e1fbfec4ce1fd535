package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig 为 nil 时返回 err.Error()（视为开发环境）
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Recurring.MaxRetries)
	assert.True(t, cfg.Recurring.Enabled)
	assert.Equal(t, "RUB", cfg.App.DefaultCurrency)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  driver: sqlite\n  path: /tmp/test.db\nrecurring:\n  max_retries: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("MONEYBOOK_APP_DEFAULT_CURRENCY", "EUR")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Recurring.MaxRetries)
	assert.Equal(t, "EUR", cfg.App.DefaultCurrency)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 1, cfg.Recurring.MaxRetries)
	assert.Equal(t, 3660, cfg.Recurring.MaxOccurrencesPerRule)
	assert.Equal(t, 20, cfg.App.PageSize)
}
