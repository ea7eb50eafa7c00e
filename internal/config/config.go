package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecoip/internal/cache"
	"ecoip/internal/logger"
	"ecoip/internal/lookup"
	"ecoip/internal/validator"
	"ecoip/internal/version"
	"ecoip/internal/view"

	"github.com/spf13/viper"
)

var (
	// AppName is the name of the application
	AppName = "ecoip"

	// EnvPrefix prefixes environment overrides, e.g. ECOIP_SERVER_ADDRESS
	EnvPrefix = "ECOIP"

	// Config search paths
	searchPaths = []string{".", "/etc/" + AppName, "$HOME/.config/" + AppName}
)

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Lookup  lookup.Config `mapstructure:"lookup"`
	Cache   cache.Config  `mapstructure:"cache"`
	GeoIP   GeoIPConfig   `mapstructure:"geoip"`
	Page    view.Config   `mapstructure:"page"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     logger.Config `mapstructure:"log"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies" validate:"dive,cidr|ip"`
	EnableRefresh   bool          `mapstructure:"enable_refresh"`
	SSEHeartbeat    time.Duration `mapstructure:"sse_heartbeat" validate:"gte=0"`
}

// GeoIPConfig represents the geolocation database configuration
type GeoIPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Database string `mapstructure:"database" validate:"required_if=Enabled true"`
}

// MetricsConfig represents the metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			EnableRefresh: true,
		},
		Lookup: *lookup.DefaultConfig(),
		Page:   *view.DefaultConfig(),
		Log:    *logger.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
	setDefaults(cfg)
	return cfg
}

// LoadConfig loads configuration from path. An empty path searches the
// default locations and falls back to built-in defaults when no file is
// found. Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// bindDefaults registers scalar defaults so environment overrides apply even
// without a config file
func bindDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.enable_refresh", true)
	v.SetDefault("lookup.quorum", 2)
	v.SetDefault("lookup.timeout", 30*time.Second)
	v.SetDefault("lookup.provider_timeout", 10*time.Second)
	v.SetDefault("lookup.retry.enable", true)
	v.SetDefault("lookup.retry.attempts", 3)
	v.SetDefault("lookup.retry.initial_interval", time.Second)
	v.SetDefault("lookup.retry.max_interval", 10*time.Second)
	v.SetDefault("lookup.retry.multiplier", 2.0)
	v.SetDefault("page.locale", "en")
	v.SetDefault("page.stats.animals_saved", 12500)
	v.SetDefault("page.stats.trees_planted", 8500000)
	v.SetDefault("page.stats.plastic_removed", 91000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// setDefaults sets default values for configuration
func setDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 15 * time.Second
	}
	// WriteTimeout stays 0: SSE streams stay open until the lookup settles
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = 60 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}
	if config.Server.SSEHeartbeat == 0 {
		config.Server.SSEHeartbeat = 15 * time.Second
	}

	config.Lookup.SetDefaults()
	if config.Lookup.UserAgent == "" {
		config.Lookup.UserAgent = version.UserAgent(AppName)
	}

	config.Cache.SetDefaults()

	if config.Page.EventsPath == "" {
		config.Page.EventsPath = "/events"
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}

	config.Log = *config.Log.SetDefaults()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Lookup.Validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
