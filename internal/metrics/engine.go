package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics counts engine outcomes. A nil *EngineMetrics is a no-op.
type EngineMetrics struct {
	Votes         *prometheus.CounterVec
	Complaints    *prometheus.CounterVec
	Wagers        *prometheus.CounterVec
	PointsAwarded *prometheus.CounterVec
	Messages      prometheus.Counter
	JobRuns       *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
	SnapshotSaves *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Upvote attempts, by result.",
		}, []string{"result"}),
		Complaints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_total",
			Help:      "Complaint actions, by action and result.",
		}, []string{"action", "result"}),
		Wagers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coinflips_total",
			Help:      "Coinflip challenges, by outcome.",
		}, []string{"outcome"}),
		PointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points credited, by ledger entry type.",
		}, []string{"type"}),
		Messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Chat messages recorded by the engagement tracker.",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled maintenance job runs, by job and result.",
		}, []string{"job", "result"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Scheduled maintenance job duration in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"job"}),
		SnapshotSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_saves_total",
			Help:      "Snapshot saves, by key and result.",
		}, []string{"key", "result"}),
	}
	reg.MustRegister(m.Votes, m.Complaints, m.Wagers, m.PointsAwarded, m.Messages,
		m.JobRuns, m.JobDuration, m.SnapshotSaves)
	return m
}

func (m *EngineMetrics) Vote(result string) {
	if m == nil {
		return
	}
	m.Votes.WithLabelValues(result).Inc()
}

func (m *EngineMetrics) Complaint(action, result string) {
	if m == nil {
		return
	}
	m.Complaints.WithLabelValues(action, result).Inc()
}

func (m *EngineMetrics) Wager(outcome string) {
	if m == nil {
		return
	}
	m.Wagers.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) Points(entryType string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.PointsAwarded.WithLabelValues(entryType).Add(float64(amount))
}

func (m *EngineMetrics) Message() {
	if m == nil {
		return
	}
	m.Messages.Inc()
}

func (m *EngineMetrics) Job(job string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, result(err)).Inc()
	m.JobDuration.WithLabelValues(job).Observe(took.Seconds())
}

func (m *EngineMetrics) SnapshotSaved(key string, err error) {
	if m == nil {
		return
	}
	m.SnapshotSaves.WithLabelValues(key, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
