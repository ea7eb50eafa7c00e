package lookup

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecoip/internal/metrics"
	"ecoip/internal/observable"
	"ecoip/internal/retry"
	"ecoip/internal/status"

	"go.uber.org/zap"
)

var (
	ErrNotStarted       = errors.New("lookup service not started")
	ErrAlreadyStarted   = errors.New("lookup service already started")
	ErrLookupInProgress = errors.New("lookup already in progress")
)

// IPResolver resolves the public address once
type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Service owns the published lookup status. It moves from Pending to a
// single terminal status per lookup; a new lookup only starts on Refresh.
type Service struct {
	resolver IPResolver
	timeout  time.Duration
	retry    *retry.Config
	value    *observable.Value[status.Status]
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	// flags keeps the last value and error across lookups; FromFlags hides
	// them while a new lookup is loading
	flags status.Flags
	wg    sync.WaitGroup
}

// NewService creates a lookup service publishing Pending until started
func NewService(resolver IPResolver, cfg *Config, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		resolver: resolver,
		timeout:  cfg.Timeout,
		retry:    cfg.Retry,
		value:    observable.New(status.Pending()),
		metrics:  m,
		logger:   logger,
	}
}

// Status returns the published status reference. Readers must not Set it.
func (s *Service) Status() *observable.Value[status.Status] {
	return s.value
}

// Start begins the initial lookup in the background
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return ErrAlreadyStarted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.launchLocked()
	return nil
}

// Refresh publishes Pending and runs another lookup
func (s *Service) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		return ErrNotStarted
	}
	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}
	if s.flags.Loading {
		return ErrLookupInProgress
	}
	s.launchLocked()
	return nil
}

// Stop cancels a running lookup and waits for it to return
func (s *Service) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) launchLocked() {
	s.flags.Loading = true
	s.publish()

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

func (s *Service) run(parent context.Context) {
	ctx := parent
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeout)
		defer cancel()
	}

	start := time.Now()
	var ip string
	err := retry.Execute(ctx, s.retry, s.logger, func(ctx context.Context) error {
		var err error
		ip, err = s.resolver.Resolve(ctx)
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	// Shutting down: leave the last published status alone
	if parent.Err() != nil {
		s.flags.Loading = false
		s.logger.Debug("Lookup cancelled", zap.Error(parent.Err()))
		return
	}

	if err != nil {
		if !errors.Is(err, status.ErrLookupFailed) {
			err = errors.Join(status.ErrLookupFailed, err)
		}
		s.logger.Warn("Lookup failed",
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		s.flags = status.Flags{Err: err, Value: s.flags.Value}
		s.publish()
		return
	}

	s.logger.Info("Lookup completed",
		zap.String("ip", ip),
		zap.Duration("took", time.Since(start)))
	s.flags = status.Flags{Value: ip}
	s.publish()
}

// publish converts the tracked flags and notifies subscribers. Callers hold s.mu.
func (s *Service) publish() {
	st := status.FromFlags(s.flags)
	s.metrics.SetBranch(string(st.Branch()), st.Terminal())
	s.value.Set(st)
}
