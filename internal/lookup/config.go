package lookup

import (
	"fmt"
	"time"

	"ecoip/internal/retry"
)

const (
	ProviderHTTP = "http"
	ProviderSTUN = "stun"

	FormatPlain = "plain"
	FormatTrace = "trace"
)

// Config represents lookup configuration
type Config struct {
	Providers       []ProviderConfig `mapstructure:"providers" validate:"required,min=1,dive"`
	Quorum          int              `mapstructure:"quorum" validate:"gte=1"`
	Timeout         time.Duration    `mapstructure:"timeout" validate:"gte=0"` // 0 waits forever
	ProviderTimeout time.Duration    `mapstructure:"provider_timeout" validate:"gte=0"`
	UserAgent       string           `mapstructure:"user_agent"`
	Retry           *retry.Config    `mapstructure:"retry"`
}

// ProviderConfig describes one external IP provider
type ProviderConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Type    string `mapstructure:"type" validate:"oneof=http stun"`
	URL     string `mapstructure:"url" validate:"required_if=Type http,omitempty,url"`
	Format  string `mapstructure:"format" validate:"omitempty,oneof=plain trace"`
	Address string `mapstructure:"address" validate:"required_if=Type stun,omitempty,hostname_port"`
}

// DefaultProviders returns the built-in provider list
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: "icanhazip", Type: ProviderHTTP, URL: "https://ipv4.icanhazip.com", Format: FormatPlain},
		{Name: "ipify", Type: ProviderHTTP, URL: "https://api.ipify.org", Format: FormatPlain},
		{Name: "cloudflare", Type: ProviderHTTP, URL: "https://www.cloudflare.com/cdn-cgi/trace", Format: FormatTrace},
		{Name: "stun-google", Type: ProviderSTUN, Address: "stun.l.google.com:19302"},
	}
}

// DefaultConfig returns the default lookup configuration
func DefaultConfig() *Config {
	return &Config{
		Providers:       DefaultProviders(),
		Quorum:          2,
		Timeout:         30 * time.Second,
		ProviderTimeout: 10 * time.Second,
		Retry:           retry.DefaultRetryConfig(),
	}
}

// SetDefaults fills unset fields
func (c *Config) SetDefaults() {
	if len(c.Providers) == 0 {
		c.Providers = DefaultProviders()
	}
	if c.Quorum == 0 {
		c.Quorum = 2
	}
	if c.ProviderTimeout == 0 {
		c.ProviderTimeout = 10 * time.Second
	}
	for i := range c.Providers {
		if c.Providers[i].Type == "" {
			c.Providers[i].Type = ProviderHTTP
		}
		if c.Providers[i].Type == ProviderHTTP && c.Providers[i].Format == "" {
			c.Providers[i].Format = FormatPlain
		}
	}
}

// Validate checks constraints the struct tags cannot express
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name: %s", p.Name)
		}
		seen[p.Name] = true
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("invalid retry config: %w", err)
	}
	return nil
}
