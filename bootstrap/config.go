package bootstrap

import (
	"time"

	"github.com/kbukum/typeioc/config"
	"github.com/kbukum/typeioc/di"
	"github.com/kbukum/typeioc/validation"
)

// Config is the application configuration: the container settings plus
// telemetry export and the debug server.
type Config struct {
	di.Config `yaml:",inline" mapstructure:",squash"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Debug     DebugConfig     `yaml:"debug" mapstructure:"debug"`
}

// TelemetryConfig configures OTLP export. Export is enabled for traces when
// container.tracing is set and for metrics when container.metrics is set.
type TelemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// DebugConfig configures the HTTP server exposing the debug endpoints.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
	Prefix  string `yaml:"prefix" mapstructure:"prefix"`
}

// Defaults returns the default of every configuration key.
func Defaults() map[string]any {
	defaults := di.ConfigDefaults()
	defaults["telemetry.endpoint"] = ""
	defaults["telemetry.insecure"] = true
	defaults["telemetry.sample_rate"] = 1.0
	defaults["telemetry.metric_interval"] = "15s"
	defaults["debug.enabled"] = false
	defaults["debug.addr"] = "127.0.0.1:6061"
	defaults["debug.prefix"] = "/debug/di"
	return defaults
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults()
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.MetricInterval == 0 {
		c.Telemetry.MetricInterval = 15 * time.Second
	}
	if c.Debug.Addr == "" {
		c.Debug.Addr = "127.0.0.1:6061"
	}
	if c.Debug.Prefix == "" {
		c.Debug.Prefix = "/debug/di"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	return validation.New().
		Custom(c.Telemetry.SampleRate >= 0 && c.Telemetry.SampleRate <= 1, "telemetry.sample_rate", "must be between 0 and 1").
		Custom(c.Telemetry.MetricInterval > 0, "telemetry.metric_interval", "must be positive").
		Custom(!c.Debug.Enabled || c.Debug.Addr != "", "debug.addr", "is required when the debug server is enabled").
		Validate()
}

// LoadConfig reads configuration named name from files and TYPEIOC_*
// environment variables, then applies defaults and validates it.
func LoadConfig(name string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	opts = append([]config.LoaderOption{config.WithDefaults(Defaults())}, opts...)
	if err := config.LoadConfig(name, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
