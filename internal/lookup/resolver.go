package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ecoip/internal/cache"
	"ecoip/internal/metrics"
	"ecoip/internal/status"

	"go.uber.org/zap"
)

// ErrNoProviders is returned when a resolver has nothing to ask
var ErrNoProviders = errors.New("no external IP providers configured")

type result struct {
	provider string
	ip       string
	err      error
}

// Resolver asks all providers concurrently and settles on one address
type Resolver struct {
	providers       []Provider
	quorum          int
	providerTimeout time.Duration
	cache           cache.Cache
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// ResolverOption customises a Resolver
type ResolverOption func(*Resolver)

// WithCache makes the resolver consult and fill c
func WithCache(c cache.Cache) ResolverOption {
	return func(r *Resolver) { r.cache = c }
}

// WithMetrics records provider queries on m
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithProviderTimeout bounds each provider query
func WithProviderTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.providerTimeout = d }
}

// NewResolver creates a resolver. A quorum below one is treated as one.
func NewResolver(providers []Provider, quorum int, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if quorum < 1 {
		quorum = 1
	}
	r := &Resolver{
		providers: providers,
		quorum:    quorum,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the public IP. The first address reported by quorum
// providers wins; otherwise the most reported one. Failures wrap
// status.ErrLookupFailed.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if len(r.providers) == 0 {
		return "", fmt.Errorf("%w: %w", status.ErrLookupFailed, ErrNoProviders)
	}

	if ip, ok := r.fromCache(ctx); ok {
		return ip, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan result, len(r.providers))
	var wg sync.WaitGroup
	for _, p := range r.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			results <- r.query(ctx, p)
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	counts := make(map[string]int)
	var order []string
	var lastErr error

	for res := range results {
		if res.err != nil {
			lastErr = res.err
			r.logger.Debug("Provider failed",
				zap.String("provider", res.provider),
				zap.Error(res.err))
			continue
		}
		if counts[res.ip] == 0 {
			order = append(order, res.ip)
		}
		counts[res.ip]++
		if counts[res.ip] >= r.quorum {
			r.store(ctx, res.ip)
			return res.ip, nil
		}
	}

	// No consensus: most reported address, earliest first on ties
	var best string
	for _, ip := range order {
		if counts[ip] > counts[best] {
			best = ip
		}
	}
	if best != "" {
		r.logger.Warn("No provider consensus, using most reported address",
			zap.String("ip", best),
			zap.Int("reports", counts[best]),
			zap.Int("quorum", r.quorum))
		r.store(ctx, best)
		return best, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return "", fmt.Errorf("%w: all providers failed: %w", status.ErrLookupFailed, lastErr)
}

func (r *Resolver) query(ctx context.Context, p Provider) result {
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	start := time.Now()
	ip, err := p.Lookup(ctx)
	r.metrics.ObserveProvider(p.Name(), time.Since(start), err)

	return result{provider: p.Name(), ip: ip, err: err}
}

func (r *Resolver) fromCache(ctx context.Context) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	ip, ok, err := r.cache.Get(ctx)
	if err != nil {
		r.logger.Warn("Failed to read cached IP", zap.Error(err))
		return "", false
	}
	if ok {
		r.logger.Debug("Using cached IP", zap.String("ip", ip))
	}
	return ip, ok
}

func (r *Resolver) store(ctx context.Context, ip string) {
	if r.cache == nil {
		return
	}
	// The lookup context is cancelled as soon as Resolve returns
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := r.cache.Set(ctx, ip); err != nil {
		r.logger.Warn("Failed to cache IP", zap.Error(err))
	}
}
