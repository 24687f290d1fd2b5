package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drakos74/free-cover/internal/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestConfig_ApplyEnv(t *testing.T) {

	type test struct {
		env   map[string]string
		port  int
		mode  string
		debug bool
		err   bool
	}

	tests := map[string]test{
		"defaults": {
			env:  map[string]string{},
			port: DefaultPort,
			mode: Development,
		},
		"port": {
			env:  map[string]string{"PORT": "8080"},
			port: 8080,
			mode: Development,
		},
		"production": {
			env:  map[string]string{"FLASK_ENV": "production", "DEBUG": "false"},
			port: DefaultPort,
			mode: Production,
		},
		"debug-upper": {
			env:   map[string]string{"DEBUG": "TRUE"},
			port:  DefaultPort,
			mode:  Development,
			debug: true,
		},
		"debug-t": {
			env:   map[string]string{"DEBUG": "t"},
			port:  DefaultPort,
			mode:  Development,
			debug: true,
		},
		"invalid-port": {
			env: map[string]string{"PORT": "http"},
			err: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(env(tt.env))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.port, cfg.Server.Port)
			assert.Equal(t, tt.mode, cfg.Env)
			assert.Equal(t, tt.debug, cfg.Debug)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "True", "1", "t", "T", " true "} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"false", "0", "yes", "", "f"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("FLASK_ENV", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
server:
  static_dir: web
  shutdown_timeout: 2s
model:
  dir: artifacts
  scaler: standard
training:
  epochs: 50
  optimizer:
    learning_rate: 0.01
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "web", cfg.Server.StaticDir)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "artifacts", cfg.Model.Dir)
	assert.Equal(t, preprocess.Standard, cfg.Model.Scaler)
	assert.Equal(t, 50, cfg.Training.Epochs)
	assert.Equal(t, 0.01, cfg.Training.Optimizer.LearningRate)
	// untouched values keep their defaults
	assert.Equal(t, Default().Training.BatchSize, cfg.Training.BatchSize)
	assert.Equal(t, Default().Generator, cfg.Generator)
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FLASK_ENV", "")
	t.Setenv("DEBUG", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [port"), 0644))
	_, err := Load(broken)
	assert.Error(t, err)

	scaler := filepath.Join(dir, "scaler.yaml")
	require.NoError(t, os.WriteFile(scaler, []byte("model:\n  scaler: minmax\n"), 0644))
	_, err = Load(scaler)
	assert.Error(t, err)
}
