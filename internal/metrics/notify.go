package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotifyMetrics tracks the webhook fan-out pipeline. A nil *NotifyMetrics is a no-op.
type NotifyMetrics struct {
	Queued       prometheus.Counter
	Dropped      prometheus.Counter
	Retry        prometheus.Counter
	RetryDropped prometheus.Counter
	Sent         *prometheus.CounterVec
	Failed       *prometheus.CounterVec
	CircuitOpen  *prometheus.CounterVec
	QueueLen     prometheus.Gauge
}

func NewNotifyMetrics(reg prometheus.Registerer) *NotifyMetrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Subsystem: "notify", Name: name, Help: help})
	}
	m := &NotifyMetrics{
		Queued:       counter("queued_total", "Notifications accepted into the queue."),
		Dropped:      counter("dropped_total", "Notifications dropped because the queue was full."),
		Retry:        counter("retry_total", "Notification deliveries scheduled for retry."),
		RetryDropped: counter("retry_dropped_total", "Deliveries abandoned after exhausting retries."),
		Sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notify", Name: "sent_total",
			Help: "Notifications delivered, by platform.",
		}, []string{"platform"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notify", Name: "failed_total",
			Help: "Notification deliveries that failed, by platform.",
		}, []string{"platform"}),
		CircuitOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notify", Name: "circuit_open_total",
			Help: "Deliveries rejected by an open circuit breaker, by target.",
		}, []string{"target"}),
		QueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "notify", Name: "queue_len",
			Help: "Current notification queue length.",
		}),
	}
	reg.MustRegister(m.Queued, m.Dropped, m.Retry, m.RetryDropped, m.Sent, m.Failed, m.CircuitOpen, m.QueueLen)
	return m
}

func (m *NotifyMetrics) Enqueued() {
	if m == nil {
		return
	}
	m.Queued.Inc()
}

func (m *NotifyMetrics) DroppedFull() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *NotifyMetrics) RetryScheduled() {
	if m == nil {
		return
	}
	m.Retry.Inc()
}

func (m *NotifyMetrics) RetryDroppedFull() {
	if m == nil {
		return
	}
	m.RetryDropped.Inc()
}

func (m *NotifyMetrics) SentTo(platform string) {
	if m == nil {
		return
	}
	m.Sent.WithLabelValues(platform).Inc()
}

func (m *NotifyMetrics) FailedTo(platform string) {
	if m == nil {
		return
	}
	m.Failed.WithLabelValues(platform).Inc()
}

func (m *NotifyMetrics) CircuitOpenFor(target string) {
	if m == nil {
		return
	}
	m.CircuitOpen.WithLabelValues(target).Inc()
}

func (m *NotifyMetrics) SetQueueLen(n int) {
	if m == nil {
		return
	}
	m.QueueLen.Set(float64(n))
}
