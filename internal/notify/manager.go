package notify

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"reputation-bot/internal/engine"
	"reputation-bot/internal/metrics"
	"reputation-bot/internal/notify/platforms"
)

// Manager fans engine events out to webhook targets. Notify never blocks:
// when the dispatch buffer is full the event is dropped and counted.
type Manager struct {
	cfg      Config
	router   Router
	adapters map[string]platforms.Adapter
	metrics  *metrics.NotifyMetrics

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}
	wg         sync.WaitGroup

	mu       sync.Mutex
	started  bool
	breakers map[string]*gobreaker.CircuitBreaker
}

var _ engine.Notifier = (*Manager)(nil)

func NewManager(cfg Config, m *metrics.NotifyMetrics) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	adapters := map[string]platforms.Adapter{
		"discord": platforms.NewDiscordAdapter(client),
		"feishu":  platforms.NewFeishuAdapter(client),
	}
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}

	mgr := &Manager{
		cfg:        cfg,
		router:     Router{},
		adapters:   adapters,
		metrics:    m,
		dispatchCh: make(chan pushJob, cfg.DispatchBuffer),
		done:       make(chan struct{}),
		breakers:   map[string]*gobreaker.CircuitBreaker{},
	}
	mgr.retryQ = newRetryQueue(mgr.dispatchCh, mgr.done, m)
	return mgr
}

func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.worker(ctx)
		}()
	}
	if m.cfg.ConfigPath != "" {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.watchConfigLoop(ctx)
		}()
	}
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
	log.Info().Int("targets", len(m.currentTargets())).Int("workers", m.cfg.Workers).Msg("notify manager started")
	return nil
}

// Wait blocks until workers have exited after the start context ends.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) Notify(ev engine.Event) {
	if !m.cfg.Enabled || ev.Kind == "" {
		return
	}
	targets := m.router.MatchTargets(m.currentTargets(), ev)
	if len(targets) == 0 {
		return
	}
	formatted, ok := FormatMessage(ev)
	if !ok {
		return
	}
	for _, target := range targets {
		job := pushJob{Target: target, Kind: ev.Kind, Formatted: formatted}
		if !m.enqueue(job) {
			m.metrics.DroppedFull()
			log.Warn().Str("platform", target.Platform).Str("event", string(ev.Kind)).Msg("notify queue full, event dropped")
		}
	}
}

func (m *Manager) enqueue(job pushJob) bool {
	select {
	case <-m.done:
		return false
	case m.dispatchCh <- job:
		m.metrics.Enqueued()
		m.metrics.SetQueueLen(len(m.dispatchCh))
		return true
	default:
		return false
	}
}

func (m *Manager) currentTargets() []Target {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Target, len(m.cfg.Targets))
	copy(out, m.cfg.Targets)
	return out
}

func (m *Manager) setTargets(targets []Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Targets = targets
}

func (m *Manager) watchConfigLoop(ctx context.Context) {
	interval := m.cfg.ConfigReload
	if interval <= 0 {
		interval = 5 * time.Second
	}
	lastRaw := ""
	if raw, err := os.ReadFile(m.cfg.ConfigPath); err == nil {
		lastRaw = strings.TrimSpace(string(raw))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			raw, err := os.ReadFile(m.cfg.ConfigPath)
			if err != nil {
				log.Warn().Err(err).Str("path", m.cfg.ConfigPath).Msg("notify config reload failed")
				continue
			}
			nextRaw := strings.TrimSpace(string(raw))
			if nextRaw == lastRaw {
				continue
			}
			targets, err := parseTargetsJSON(nextRaw)
			if err != nil {
				log.Warn().Err(err).Str("path", m.cfg.ConfigPath).Msg("notify config reload failed")
				continue
			}
			m.setTargets(targets)
			lastRaw = nextRaw
			log.Info().Int("targets", len(targets)).Msg("notify targets reloaded")
		}
	}
}
