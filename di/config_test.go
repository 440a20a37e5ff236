package di_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/typeioc/config"
	"github.com/kbukum/typeioc/di"
	"github.com/kbukum/typeioc/errors"
)

type emptyFS struct{}

func (emptyFS) Exists(string) bool    { return false }
func (emptyFS) LoadEnv(string) error { return nil }

func TestConfig_Defaults(t *testing.T) {
	var cfg di.Config
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "typeioc", cfg.Base.Name)
	assert.Equal(t, "local", cfg.Container.DefaultScope)
	assert.Equal(t, di.DefaultTag, cfg.Container.InjectTag)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*di.Config)
		field  string
	}{
		{"bad scope", func(c *di.Config) { c.Container.DefaultScope = "request" }, "container.default_scope"},
		{"bad level", func(c *di.Config) { c.Logging.Level = "loud" }, "logging"},
		{"bad environment", func(c *di.Config) { c.Base.Environment = "moon" }, "base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg di.Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("TYPEIOC_CONTAINER_DEFAULT_SCOPE", "singleton")
	t.Setenv("TYPEIOC_LOGGING_LEVEL", "debug")

	cfg, err := di.LoadConfig("typeioc", config.WithFileSystem(emptyFS{}))
	require.NoError(t, err)
	assert.Equal(t, "singleton", cfg.Container.DefaultScope)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "typeioc", cfg.Base.Name)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeioc.yml")
	content := `
base:
  name: orders
  environment: production
container:
  default_scope: singleton
  inject_tag: wire
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := di.LoadConfig("typeioc", config.WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "orders", cfg.Base.Name)
	assert.Equal(t, "production", cfg.Base.Environment)
	assert.Equal(t, "wire", cfg.Container.InjectTag)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("TYPEIOC_CONTAINER_DEFAULT_SCOPE", "request")
	_, err := di.LoadConfig("typeioc", config.WithFileSystem(emptyFS{}))
	assert.ErrorIs(t, err, errors.New(errors.ErrCodeInvalidConfig, ""))
}

func TestNewFromConfig(t *testing.T) {
	cfg := &di.Config{}
	cfg.Logging.Level = "disabled"
	cfg.Container.DefaultScope = "singleton"
	cfg.Container.InjectTag = "wire"

	c, err := di.NewFromConfig(cfg)
	require.NoError(t, err)

	type wired struct {
		Log *Logger `wire:""`
	}
	a := di.MustResolve[*wired](c)
	b := di.MustResolve[*wired](c)
	assert.Same(t, a, b, "singleton default scope")
	assert.NotNil(t, a.Log)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	cfg := &di.Config{}
	cfg.Container.DefaultScope = "request"
	_, err := di.NewFromConfig(cfg)
	assert.Error(t, err)
}
