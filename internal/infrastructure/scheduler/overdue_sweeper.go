package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrgProvider lists the organizations that have tenants to sweep
type OrgProvider interface {
	DistinctActiveOrgIDs(ctx context.Context) ([]uuid.UUID, error)
}

// OverdueMarker marks a single organization's overdue tenants as late
type OverdueMarker interface {
	MarkOverdueTenants(ctx context.Context, orgID uuid.UUID) (int, error)
}

// OverdueSweeperConfig holds configuration for the overdue sweeper
type OverdueSweeperConfig struct {
	// Enabled determines if the sweeper is active
	Enabled bool

	// Interval is how often the sweep runs
	Interval time.Duration

	// SweepTimeout is the maximum time for one full sweep across organizations
	SweepTimeout time.Duration
}

// DefaultOverdueSweeperConfig returns default sweeper configuration
func DefaultOverdueSweeperConfig() OverdueSweeperConfig {
	return OverdueSweeperConfig{
		Enabled:      true,
		Interval:     time.Hour,
		SweepTimeout: 10 * time.Minute,
	}
}

// OverdueSweeper periodically marks active tenants without a recent paid
// payment as late, per organization. A failed organization does not stop
// the sweep; the next interval retries it.
type OverdueSweeper struct {
	marker    OverdueMarker
	orgs      OrgProvider
	logger    *zap.Logger
	config    OverdueSweeperConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOverdueSweeper creates a new overdue sweeper
func NewOverdueSweeper(
	marker OverdueMarker,
	orgs OrgProvider,
	logger *zap.Logger,
	config OverdueSweeperConfig,
) *OverdueSweeper {
	return &OverdueSweeper{
		marker: marker,
		orgs:   orgs,
		logger: logger,
		config: config,
	}
}

// Start starts the sweep loop
func (s *OverdueSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Overdue sweeper is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		s.mu.Unlock()
		return ErrInvalidConfig
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Overdue sweeper started",
		zap.Duration("interval", s.config.Interval))

	return nil
}

// Stop gracefully stops the sweeper
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweeper stop timed out")
		return ctx.Err()
	}
}

// TriggerImmediateSweep runs one sweep outside the regular interval
func (s *OverdueSweeper) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate overdue sweep")

	go func() {
		defer s.wg.Done()
		s.sweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the sweeper is running
func (s *OverdueSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *OverdueSweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Overdue sweep loop stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OverdueSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()

	orgIDs, err := s.orgs.DistinctActiveOrgIDs(sweepCtx)
	if err != nil {
		s.logger.Error("Overdue sweep failed to list organizations", zap.Error(err))
		return
	}

	marked := 0
	failed := 0
	for _, orgID := range orgIDs {
		count, err := s.marker.MarkOverdueTenants(sweepCtx, orgID)
		if err != nil {
			failed++
			s.logger.Error("Overdue sweep failed for organization",
				zap.String("org_id", orgID.String()),
				zap.Error(err))
			continue
		}
		marked += count
	}

	s.logger.Info("Overdue sweep completed",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("organizations", len(orgIDs)),
		zap.Int("marked_late", marked),
		zap.Int("failed", failed))
}
