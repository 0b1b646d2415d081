package notify

import (
	"time"

	"reputation-bot/internal/metrics"
)

type retryQueue struct {
	out     chan<- pushJob
	done    <-chan struct{}
	metrics *metrics.NotifyMetrics
}

func newRetryQueue(out chan<- pushJob, done <-chan struct{}, m *metrics.NotifyMetrics) *retryQueue {
	return &retryQueue{out: out, done: done, metrics: m}
}

func (q *retryQueue) Enqueue(job pushJob, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		select {
		case <-q.done:
			return
		case q.out <- job:
			q.metrics.SetQueueLen(len(q.out))
		default:
			q.metrics.RetryDroppedFull()
		}
	})
}
