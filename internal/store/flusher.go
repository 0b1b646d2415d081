package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const saveTimeout = 10 * time.Second

// Flusher queues snapshot saves to a single writer goroutine. Repeated
// submissions for one key collapse to the newest blob, and a key is never
// written by two saves at once.
type Flusher struct {
	store  Store
	onSave func(key string, err error)

	saveMu  sync.Mutex
	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	wake    chan struct{}
	done    chan struct{}
	running bool
}

func NewFlusher(s Store, onSave func(key string, err error)) *Flusher {
	return &Flusher{
		store:   s,
		onSave:  onSave,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (f *Flusher) Submit(key string, blob []byte) {
	f.mu.Lock()
	if _, ok := f.pending[key]; !ok {
		f.order = append(f.order, key)
	}
	f.pending[key] = blob
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Start runs the writer until ctx is cancelled, then drains what is queued.
func (f *Flusher) Start(ctx context.Context) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()
	go func() {
		defer close(f.done)
		for {
			select {
			case <-ctx.Done():
				f.drain(context.Background())
				return
			case <-f.wake:
				f.drain(ctx)
			}
		}
	}()
}

// Done is closed once the writer has exited after its final drain.
func (f *Flusher) Done() <-chan struct{} {
	return f.done
}

// Flush writes everything queued on the calling goroutine. Used by tests and
// by callers that have not started the writer.
func (f *Flusher) Flush(ctx context.Context) {
	f.drain(ctx)
}

func (f *Flusher) drain(ctx context.Context) {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()
	for {
		f.mu.Lock()
		if len(f.order) == 0 {
			f.mu.Unlock()
			return
		}
		batch := make([]string, len(f.order))
		copy(batch, f.order)
		blobs := f.pending
		f.order = nil
		f.pending = make(map[string][]byte)
		f.mu.Unlock()

		for _, key := range batch {
			saveCtx, cancel := context.WithTimeout(ctx, saveTimeout)
			err := f.store.Save(saveCtx, key, blobs[key])
			cancel()
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("snapshot save failed")
			}
			if f.onSave != nil {
				f.onSave(key, err)
			}
		}
	}
}
