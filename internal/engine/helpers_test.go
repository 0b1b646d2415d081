package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"reputation-bot/internal/store"

	"github.com/jonboulle/clockwork"
)

const (
	testAdmin int64 = 1000
	userA     int64 = 1
	userB     int64 = 2
	userC     int64 = 3
)

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Notify(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventKind, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, k := range l.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

type testEnv struct {
	eng     *Engine
	clock   *clockwork.FakeClock
	events  *eventLog
	store   *store.FileStore
	flusher *store.Flusher
	coin    bool
}

func vilnius(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

// newTestEnv starts at Wednesday 2024-05-01 12:00 Vilnius time with sellers
// @Vendor1 and @Vendor2.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc := vilnius(t)
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	env := &testEnv{
		clock:  clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, loc)),
		events: &eventLog{},
		store:  st,
		coin:   true,
	}
	env.flusher = store.NewFlusher(st, nil)
	env.eng = New(Options{
		Clock:    env.clock,
		Location: loc,
		AdminID:  testAdmin,
		Flusher:  env.flusher,
		Notifier: env.events,
		Coin:     func() bool { return env.coin },
	})
	env.eng.SeedSellers([]string{"@Vendor1", "@Vendor2"})
	t.Cleanup(env.eng.Close)
	return env
}

func (env *testEnv) flush() {
	env.flusher.Flush(context.Background())
}

func (env *testEnv) chat(user int64, handle string, n int) {
	for i := 0; i < n; i++ {
		env.eng.RecordMessage(user, handle)
	}
}

func (env *testEnv) fund(t *testing.T, user, amount int64) {
	t.Helper()
	if _, err := env.eng.AddPoints(testAdmin, user, amount); err != nil {
		t.Fatalf("AddPoints(%d, %d): %v", user, amount, err)
	}
}

func mustInfo(t *testing.T, eng *Engine, seller string) SellerInfo {
	t.Helper()
	info, err := eng.SellerInfo(seller)
	if err != nil {
		t.Fatalf("SellerInfo(%s): %v", seller, err)
	}
	return info
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
