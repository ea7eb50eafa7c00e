// Package app wires configuration into the running components.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ecoip/internal/cache"
	"ecoip/internal/config"
	"ecoip/internal/geoip"
	"ecoip/internal/lookup"
	"ecoip/internal/metrics"
	"ecoip/internal/view"

	"go.uber.org/zap"
)

// App holds the components built from one configuration
type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Lookup   *lookup.Service
	Renderer *view.Renderer
	GeoIP    *geoip.Resolver

	cache  cache.Cache
	client *http.Client
	logger *zap.Logger
}

// Option customises how an App is built
type Option func(*options)

type options struct {
	providers []lookup.Provider
	cache     cache.Cache
}

// WithProviders replaces the configured providers
func WithProviders(p ...lookup.Provider) Option {
	return func(o *options) { o.providers = p }
}

// WithCache replaces the configured cache
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// New builds all components. Nothing runs until Start.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		logger:  logger,
		client: &http.Client{
			Timeout: cfg.Lookup.ProviderTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
	}

	renderer, err := view.New(&cfg.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.Renderer = renderer

	a.cache = o.cache
	if a.cache == nil && cfg.Cache.Enabled {
		rc, err := cache.NewRedis(ctx, cfg.Cache)
		if err != nil {
			// The cache is an optimisation; lookups still work without it
			logger.Warn("Cache unavailable, continuing without it", zap.Error(err))
		} else {
			a.cache = rc
		}
	}

	if cfg.GeoIP.Enabled {
		geo, err := geoip.Open(cfg.GeoIP.Database)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.GeoIP = geo
	}

	providers := o.providers
	if providers == nil {
		providers, err = lookup.NewProviders(cfg.Lookup.Providers, a.client, cfg.Lookup.UserAgent, nil)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create providers: %w", err)
		}
	}

	resolverOpts := []lookup.ResolverOption{
		lookup.WithMetrics(a.Metrics),
		lookup.WithProviderTimeout(cfg.Lookup.ProviderTimeout),
	}
	if a.cache != nil {
		resolverOpts = append(resolverOpts, lookup.WithCache(a.cache))
	}
	resolver := lookup.NewResolver(providers, cfg.Lookup.Quorum, logger.Named("resolver"), resolverOpts...)

	a.Lookup = lookup.NewService(resolver, &cfg.Lookup, a.Metrics, logger.Named("lookup"))

	return a, nil
}

// Start begins the initial lookup
func (a *App) Start(ctx context.Context) error {
	return a.Lookup.Start(ctx)
}

// Close stops the lookup and releases resources
func (a *App) Close() error {
	if a.Lookup != nil {
		a.Lookup.Stop()
	}

	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	errs = append(errs, a.GeoIP.Close())

	if t, ok := a.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return errors.Join(errs...)
}
