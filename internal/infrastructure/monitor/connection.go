package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// Monitor periodically pings the session store and caches the result for
// the health endpoint.
type Monitor struct {
	checks map[string]Check

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(checks map[string]Check, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the outcome.
func (m *Monitor) Refresh() {
	components := make(map[string]bool, len(m.checks))
	for name, check := range m.checks {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		err := check(ctx)
		cancel()
		if err != nil {
			m.logger.Warn("dependency check failed", zap.String("component", name), zap.Error(err))
		}
		components[name] = err == nil
	}

	m.mu.Lock()
	m.status = Status{Components: components, LastCheck: time.Now()}
	m.mu.Unlock()
}
