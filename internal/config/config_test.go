package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	for _, name := range envKeys {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Port)
	assert.Equal(t, ":10000", cfg.Addr())
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, "https://emkc.org/api/v2/piston", cfg.ExecutorURL)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, BackpressureKick, cfg.Backpressure)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\nexecutor_url: http://file\nping_period: 10s\n"), 0o600))
	t.Setenv("CONFIG_FILE", file)
	t.Setenv("EXECUTOR_URL", "http://env")
	t.Setenv("ALLOWED_ORIGIN", "http://localhost:5173, https://rooms.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://env", cfg.ExecutorURL)
	assert.Equal(t, 10*time.Second, cfg.PingPeriod)
	assert.Equal(t, []string{"http://localhost:5173", "https://rooms.example"}, cfg.AllowedOrigins())
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "70000")
	t.Setenv("SEND_BUFFER", "0")
	t.Setenv("BACKPRESSURE", "ignore")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port out of range")
	assert.Contains(t, err.Error(), "send_buffer")
	assert.Contains(t, err.Error(), "backpressure")
}

func TestLoad_BackpressureFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BACKPRESSURE", "drop")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackpressureDrop, cfg.Backpressure)
}

func TestOriginAllowed(t *testing.T) {
	open := &Config{AllowedOrigin: "*"}
	assert.True(t, open.OriginAllowed("http://evil.example"))

	strict := &Config{AllowedOrigin: "http://localhost:5173"}
	assert.True(t, strict.OriginAllowed("http://localhost:5173"))
	assert.True(t, strict.OriginAllowed(""))
	assert.False(t, strict.OriginAllowed("http://evil.example"))

	empty := &Config{}
	assert.Equal(t, []string{"*"}, empty.AllowedOrigins())
}
