package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jd "github.com/unkn0wn-root/jsondefaults"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dcbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		require.NoError(t, cfg.Validate())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
iterations: 7
objects: 20
extended: true
pause_gc: true
store:
  kind: redis
  codec: cbor
  ttl: 1h
logging:
  backend: slog
  verbose: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Iterations)
	assert.Equal(t, 20, cfg.Objects)
	assert.Equal(t, jd.DefaultMembers, cfg.Members, "unset keys keep defaults")
	assert.True(t, cfg.Extended)
	assert.True(t, cfg.PauseGC)
	assert.Equal(t, "redis", cfg.Store.Kind)
	assert.Equal(t, "cbor", cfg.Store.Codec)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "dcbench", cfg.Store.Namespace)
	assert.Equal(t, LoggingConfig{Backend: "slog", Verbose: true}, cfg.Logging)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "iterations: [1"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DCBENCH_REDIS_ADDR", "redis:6380")
	t.Setenv("DCBENCH_STORE", "redis")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", cfg.Store.RedisAddr)
	assert.Equal(t, "redis", cfg.Store.Kind)
}

func TestFlagsOverrideFileOnlyWhenSet(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--iterations", "3", "--store=bigcache", "--binary", "-v"}))

	cfg, err := Load(writeConfig(t, "iterations: 9\nobjects: 4\nlogging:\n  backend: logrus\n"))
	require.NoError(t, err)

	flags := DefaultConfig()
	flags.Iterations = 3
	flags.Store.Kind = "bigcache"
	flags.Binary = true
	flags.Logging.Verbose = true
	cfg.applyFlags(cmd.Flags(), flags)

	assert.Equal(t, 3, cfg.Iterations)
	assert.Equal(t, 4, cfg.Objects, "file value kept when the flag is unset")
	assert.Equal(t, "bigcache", cfg.Store.Kind)
	assert.True(t, cfg.Binary)
	assert.Equal(t, "logrus", cfg.Logging.Backend)
	assert.True(t, cfg.Logging.Verbose)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero iterations":  func(c *Config) { c.Iterations = 0 },
		"negative objects": func(c *Config) { c.Objects = -1 },
		"zero rounds":      func(c *Config) { c.Rounds = 0 },
		"unknown store":    func(c *Config) { c.Store.Kind = "memcached" },
		"unknown codec":    func(c *Config) { c.Store.Codec = "gob" },
		"redis no addr":    func(c *Config) { c.Store.Kind = "redis"; c.Store.RedisAddr = "" },
		"negative ttl":     func(c *Config) { c.Store.TTL = -time.Second },
		"unknown logger":   func(c *Config) { c.Logging.Backend = "glog" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestMethodsFollowConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, cfg.Methods(), len(jd.StandardMethods()))

	cfg.Extended, cfg.Binary = true, true
	want := len(jd.StandardMethods()) + len(jd.ExtendedMethods()) + len(jd.BinaryMethods())
	assert.Len(t, cfg.Methods(), want)
}
