package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/sessionauth/repository"
)

// SweeperConfig controls how often expired sessions are purged.
type SweeperConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Sweeper periodically deletes expired sessions from stores that support it.
// Expiry is still enforced lazily at validation; the sweep only reclaims space.
type Sweeper struct {
	store  repository.SessionSweeper
	logger *zap.Logger
	cron   *cron.Cron
	cfg    SweeperConfig
	now    func() time.Time
}

func NewSweeper(store repository.SessionSweeper, logger *zap.Logger, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}
	if cfg.Timeout <= 0 || cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Sweeper{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
		now:    time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("session sweep failed", zap.Error(err))
		}
	})

	return s
}

func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", s.cfg.Interval))
}

// Stop halts scheduling and waits for a running sweep or ctx, whichever ends first.
func (s *Sweeper) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

// Sweep runs one purge immediately.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		s.logger.Info("expired sessions purged", zap.Int("count", removed))
	}
	return removed, nil
}
