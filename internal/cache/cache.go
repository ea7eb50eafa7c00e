package cache

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned when a cache is requested but not configured
var ErrDisabled = errors.New("cache disabled")

// Cache stores the last resolved public IP so replicas can share it
type Cache interface {
	// Get returns the cached IP; ok is false on a miss
	Get(ctx context.Context) (ip string, ok bool, err error)
	// Set stores ip for the configured TTL
	Set(ctx context.Context, ip string) error
	Close() error
}

// Config represents cache configuration
type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db" validate:"gte=0"`
	Key          string        `mapstructure:"key"`
	TTL          time.Duration `mapstructure:"ttl"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SetDefaults fills unset fields
func (c *Config) SetDefaults() {
	if c.Key == "" {
		c.Key = "ecoip:public_ip"
	}
	if c.TTL == 0 {
		c.TTL = 10 * time.Minute
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}
