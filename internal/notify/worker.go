package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"reputation-bot/internal/notify/platforms"
)

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-m.dispatchCh:
			m.metrics.SetQueueLen(len(m.dispatchCh))
			m.processJob(ctx, job)
		}
	}
}

func (m *Manager) processJob(ctx context.Context, job pushJob) {
	adapter := m.adapters[job.Target.Platform]
	if adapter == nil {
		m.metrics.DroppedFull()
		log.Warn().Str("platform", job.Target.Platform).Msg("no adapter for notify target")
		return
	}

	cb := m.breaker(job.key())
	_, err := cb.Execute(func() (any, error) {
		return nil, adapter.Send(ctx, job.Target.Endpoint, job.Target.Secret, toPlatformMessage(job.Formatted))
	})
	switch {
	case err == nil:
		m.metrics.SentTo(job.Target.Platform)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		m.metrics.CircuitOpenFor(job.Target.Platform)
		m.retryOrDrop(job, err)
	default:
		m.metrics.FailedTo(job.Target.Platform)
		m.retryOrDrop(job, err)
	}
}

func (m *Manager) retryOrDrop(job pushJob, err error) bool {
	if job.Attempt >= m.cfg.RetryMax || platforms.IsPermanent(err) {
		m.metrics.RetryDroppedFull()
		log.Warn().Err(err).Str("platform", job.Target.Platform).Str("event", string(job.Kind)).
			Int("attempts", job.Attempt+1).Msg("notify delivery abandoned")
		return false
	}
	job.Attempt++
	m.metrics.RetryScheduled()
	delay := m.cfg.RetryBase * time.Duration(1<<(job.Attempt-1))
	if wait := platforms.RetryDelay(err); wait > delay {
		delay = wait
	}
	m.retryQ.Enqueue(job, delay)
	return true
}

func (m *Manager) breaker(key string) *gobreaker.CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cb, ok := m.breakers[key]; ok {
		return cb
	}
	threshold := uint32(m.cfg.FailureThreshold)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Timeout:     m.cfg.CircuitOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("target", redactKey(name)).Str("from", from.String()).Str("to", to.String()).Msg("notify circuit state changed")
		},
	})
	m.breakers[key] = cb
	return cb
}

// redactKey keeps the platform only. Webhook endpoints embed their tokens.
func redactKey(key string) string {
	platform, _, _ := strings.Cut(key, "|")
	return platform
}

func toPlatformMessage(msg FormattedMessage) platforms.Message {
	fields := make([]platforms.Field, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, platforms.Field{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return platforms.Message{
		Event:       string(msg.Kind),
		Title:       msg.Title,
		Content:     msg.Content,
		Description: msg.Description,
		Severity:    msg.Severity,
		Timestamp:   msg.Timestamp,
		Footer:      msg.Footer,
		Fields:      fields,
	}
}
