package feed

import (
	"strconv"
	"sync"

	"reputation-bot/internal/engine"

	"github.com/jonboulle/clockwork"
)

type Event struct {
	EventID  string `json:"event_id"`
	Event    string `json:"event"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

// Buffer keeps the most recent public events for replay and fans new ones
// out to subscribers. Slow subscribers miss events instead of blocking.
type Buffer struct {
	clock    clockwork.Clock
	mu       sync.Mutex
	nextID   int64
	max      int
	events   []Event
	watchers map[chan Event]struct{}
	closed   bool
}

var _ engine.Notifier = (*Buffer)(nil)

func NewBuffer(max int, clock clockwork.Clock) *Buffer {
	if max <= 0 {
		max = 200
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Buffer{
		clock:    clock,
		max:      max,
		watchers: map[chan Event]struct{}{},
	}
}

// Notify publishes the public part of an engine event. Events with nothing
// public to say are skipped.
func (b *Buffer) Notify(ev engine.Event) {
	data, ok := publicData(ev)
	if !ok {
		return
	}
	b.Append(string(ev.Kind), data)
}

func (b *Buffer) Append(event string, data any) Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Event{}
	}
	b.nextID++
	ev := Event{
		EventID:  strconv.FormatInt(b.nextID, 10),
		Event:    event,
		ServerTS: b.clock.Now().UnixMilli(),
		Data:     data,
	}
	b.events = append(b.events, ev)
	if len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
	for ch := range b.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// ReplayAfter returns buffered events newer than lastEventID, or all of them
// when the id is empty or unparseable.
func (b *Buffer) ReplayAfter(lastEventID string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	last, err := strconv.ParseInt(lastEventID, 10, 64)
	if lastEventID == "" || err != nil {
		last = 0
	}
	out := make([]Event, 0, len(b.events))
	for _, ev := range b.events {
		id, _ := strconv.ParseInt(ev.EventID, 10, 64)
		if id > last {
			out = append(out, ev)
		}
	}
	return out
}

func (b *Buffer) Subscribe() chan Event {
	ch := make(chan Event, 32)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.watchers[ch] = struct{}{}
	return ch
}

func (b *Buffer) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.watchers[ch]; ok {
		delete(b.watchers, ch)
		close(ch)
	}
}

func (b *Buffer) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

// Close ends every subscription; later appends are dropped.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.watchers {
		close(ch)
		delete(b.watchers, ch)
	}
}
