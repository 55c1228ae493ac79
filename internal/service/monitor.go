package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jchenq/portfolio-desk/internal/config"
	"github.com/jchenq/portfolio-desk/internal/model"
)

// Monitor runs the price alert checking loop in the background. It is a
// two-state machine (stopped, running); Start and Stop are idempotent. With
// dynamic intervals enabled, the polling period scales with the number of
// monitored symbols (active alerts plus held positions) to respect the
// provider request budget.
type Monitor struct {
	alerts *AlertService
	cfg    config.MonitorConfig

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	lastCheck time.Time
	checks    int64
	triggered int64
}

// NewMonitor creates a Monitor over the alert service.
func NewMonitor(alerts *AlertService, cfg config.MonitorConfig) *Monitor {
	return &Monitor{alerts: alerts, cfg: cfg}
}

// DynamicInterval sizes the polling interval so that quoting count symbols
// stays within targetPerHour price requests: interval = 3600 * count /
// targetPerHour seconds, clamped to [minSeconds, maxSeconds].
func DynamicInterval(count, targetPerHour, minSeconds, maxSeconds int) time.Duration {
	if targetPerHour <= 0 {
		targetPerHour = 60
	}
	seconds := 3600 * count / targetPerHour
	if seconds < minSeconds {
		seconds = minSeconds
	}
	if seconds > maxSeconds {
		seconds = maxSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Start launches the monitoring loop. Starting a running monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true
	go m.run(ctx)
	log.Println("alert monitor started")
}

// Stop halts the monitoring loop and waits for the in-flight check to
// finish. Stopping a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done
	log.Println("alert monitor stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Info reports the monitor's current state and counters.
func (m *Monitor) Info() model.MonitorInfo {
	count, err := m.alerts.CountActive()
	if err != nil {
		count = 0
	}
	monitored := m.monitoredCount(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	return model.MonitorInfo{
		Running:          m.running,
		ActiveAlerts:     count,
		MonitoredSymbols: monitored,
		IntervalSeconds:  int(m.interval(monitored).Seconds()),
		LastCheck:        m.lastCheck,
		ChecksCompleted:  m.checks,
		AlertsTriggered:  m.triggered,
	}
}

// CheckNow runs one check cycle immediately, independent of the loop.
func (m *Monitor) CheckNow(ctx context.Context) (int, error) {
	triggered, err := m.alerts.CheckAll(ctx)
	m.mu.Lock()
	m.lastCheck = time.Now().UTC()
	m.checks++
	m.triggered += int64(triggered)
	m.mu.Unlock()
	return triggered, err
}

func (m *Monitor) interval(symbolCount int) time.Duration {
	if !m.cfg.DynamicInterval {
		return time.Duration(m.cfg.CheckIntervalSeconds) * time.Second
	}
	return DynamicInterval(symbolCount, m.cfg.TargetRequestsPerHour, m.cfg.MinIntervalSeconds, m.cfg.MaxIntervalSeconds)
}

// monitoredCount sizes the request budget: alerts and held positions both
// cost a quote per check.
func (m *Monitor) monitoredCount(ctx context.Context) int {
	symbols, err := m.alerts.MonitoredSymbols(ctx)
	if err != nil {
		log.Printf("alert monitor: failed to resolve monitored symbols: %v", err)
		return 0
	}
	return len(symbols)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	for {
		count := m.monitoredCount(ctx)

		timer := time.NewTimer(m.interval(count))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if count == 0 {
			continue
		}
		if _, err := m.CheckNow(ctx); err != nil && ctx.Err() == nil {
			log.Printf("alert monitor: check failed: %v", err)
		}
	}
}
