package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/pairs/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.Options{SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, config.DevSecret, cfg.Session.Secret)
	assert.Equal(t, "pairs.events", cfg.NATS.Prefix)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.OpenAPI.Validate)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `
addr: ":9000"
store:
  driver: redis
redis:
  addr: "cache:6379"
  db: 2
  lock: true
session:
  ttl: 30m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pairs.yaml"), []byte(content), 0644))

	cfg, err := config.Load(config.Options{SearchPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Redis.Lock)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := config.Load(config.Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pairs.yaml"), []byte("log:\n  level: warn\n"), 0644))
	t.Setenv("PAIRS_LOG_LEVEL", "debug")

	cfg, err := config.Load(config.Options{SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAIRS_CATALOG_PATH=themes.yaml\n"), 0644))
	t.Setenv("PAIRS_CATALOG_PATH", "")
	require.NoError(t, os.Unsetenv("PAIRS_CATALOG_PATH"))

	cfg, err := config.Load(config.Options{SearchPaths: []string{dir}, DotEnv: []string{envFile}})
	require.NoError(t, err)
	assert.Equal(t, "themes.yaml", cfg.Catalog.Path)
}

func TestLoad_Flags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.String("store-driver", "memory", "")
	flags.String("unrelated", "x", "")
	flags.String("session", "terminal", "")
	require.NoError(t, flags.Parse([]string{"--addr", ":7000", "--store-driver", "file", "--session", "p1"}))

	cfg, err := config.Load(config.Options{SearchPaths: []string{t.TempDir()}, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL, "flags that only prefix a key are ignored")
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*config.Config){
		"unknown driver": func(c *config.Config) { c.Store.Driver = "sqlite" },
		"negative ttl":   func(c *config.Config) { c.Session.TTL = -time.Second },
		"lock without redis": func(c *config.Config) {
			c.Store.Driver = config.DriverMemory
			c.Redis.Lock = true
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Store.Driver = config.DriverMemory
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
