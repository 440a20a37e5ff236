package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", BaseConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid test", BaseConfig{Name: "svc", Environment: "test"}, false, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", BaseConfig{Environment: "production"}, true, "base.name is required"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, true, "base.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type testConfig struct {
	Base      BaseConfig `mapstructure:"base"`
	Container struct {
		DefaultScope string `mapstructure:"default_scope"`
	} `mapstructure:"container"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "typeioc.yml")

	yamlContent := `
base:
  name: test-app
  environment: staging
container:
  default_scope: singleton
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("typeioc", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Base.Name != "test-app" {
		t.Errorf("expected name 'test-app', got %q", cfg.Base.Name)
	}
	if cfg.Container.DefaultScope != "singleton" {
		t.Errorf("expected default_scope 'singleton', got %q", cfg.Container.DefaultScope)
	}
}

func TestLoadConfigEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TYPEIOC_CONTAINER_DEFAULT_SCOPE", "singleton")

	var cfg testConfig
	err := LoadConfig("typeioc", &cfg,
		WithFileSystem(&mockFS{files: map[string]bool{}}),
		WithDefaults(map[string]any{"container.default_scope": "local", "base.name": "typeioc"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Container.DefaultScope != "singleton" {
		t.Errorf("expected env override 'singleton', got %q", cfg.Container.DefaultScope)
	}
	if cfg.Base.Name != "typeioc" {
		t.Errorf("expected default name, got %q", cfg.Base.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/typeioc.yml": true,
		".env":                 true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("typeioc", LoaderConfig{})
	if files.ConfigFile != "./config/typeioc.yml" {
		t.Errorf("expected ./config/typeioc.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", files.EnvFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithDefaults(map[string]any{"a.b": 1})(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.Defaults["a.b"] != 1 {
		t.Errorf("expected default a.b=1, got %v", lc.Defaults["a.b"])
	}
}
