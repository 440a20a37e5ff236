package di

import (
	"github.com/kbukum/typeioc/config"
	"github.com/kbukum/typeioc/logger"
	"github.com/kbukum/typeioc/observability"
	"github.com/kbukum/typeioc/validation"
)

// Config is the file/environment configuration of a container.
type Config struct {
	Base      config.BaseConfig `yaml:"base" mapstructure:"base"`
	Logging   logger.Config     `yaml:"logging" mapstructure:"logging"`
	Container ContainerConfig   `yaml:"container" mapstructure:"container"`
}

// ContainerConfig holds the engine settings.
type ContainerConfig struct {
	DefaultScope string `yaml:"default_scope" mapstructure:"default_scope" validate:"required,oneof=local singleton"`
	InjectTag    string `yaml:"inject_tag" mapstructure:"inject_tag" validate:"required"`
	Tracing      bool   `yaml:"tracing" mapstructure:"tracing"`
	TracerName   string `yaml:"tracer_name" mapstructure:"tracer_name"`
	Metrics      bool   `yaml:"metrics" mapstructure:"metrics"`
	MeterName    string `yaml:"meter_name" mapstructure:"meter_name"`
}

// ConfigDefaults returns the default of every configuration key. Keys listed
// here can be overridden with TYPEIOC_* environment variables.
func ConfigDefaults() map[string]any {
	return map[string]any{
		"base.name":               "typeioc",
		"base.environment":        "development",
		"base.debug":              false,
		"logging.level":           "info",
		"logging.format":          "console",
		"logging.output":          "stderr",
		"logging.no_color":        false,
		"logging.timestamp":       true,
		"logging.caller":          false,
		"container.default_scope": "local",
		"container.inject_tag":    DefaultTag,
		"container.tracing":       false,
		"container.tracer_name":   observability.DefaultTracerName,
		"container.metrics":       false,
		"container.meter_name":    observability.DefaultTracerName,
	}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Base.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Base.Name == "" {
		c.Base.Name = "typeioc"
	}
	if c.Container.DefaultScope == "" {
		c.Container.DefaultScope = "local"
	}
	if c.Container.InjectTag == "" {
		c.Container.InjectTag = DefaultTag
	}
	if c.Container.TracerName == "" {
		c.Container.TracerName = observability.DefaultTracerName
	}
	if c.Container.MeterName == "" {
		c.Container.MeterName = observability.DefaultTracerName
	}
}

// Validate checks the configuration, reporting every invalid field.
func (c *Config) Validate() error {
	v := validation.New().
		Wrap("base", c.Base.Validate()).
		Wrap("logging", c.Logging.Validate())
	if v.HasErrors() {
		return v.Validate()
	}
	return validation.Validate(c)
}

// LoadConfig reads configuration named name from files and the environment
// (prefix TYPEIOC), then applies defaults and validates it.
func LoadConfig(name string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	opts = append([]config.LoaderOption{config.WithDefaults(ConfigDefaults())}, opts...)
	if err := config.LoadConfig(name, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromConfig creates a container configured by cfg. Options in opts are
// applied after the ones derived from cfg.
func NewFromConfig(cfg *Config, opts ...Option) (*Container, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := []Option{
		WithLogger(logger.New(&cfg.Logging, cfg.Base.Name).WithComponent("di")),
		WithTypeHints(NewStructTagHints(cfg.Container.InjectTag)),
	}
	if cfg.Container.DefaultScope == "singleton" {
		options = append(options, WithSingletonDefault())
	}
	if cfg.Container.Tracing {
		options = append(options, WithTracer(observability.Tracer(cfg.Container.TracerName)))
	}
	if cfg.Container.Metrics {
		m, err := observability.NewResolutionMetrics(observability.Meter(cfg.Container.MeterName))
		if err != nil {
			return nil, err
		}
		options = append(options, WithMetrics(m))
	}
	return New(append(options, opts...)...), nil
}
