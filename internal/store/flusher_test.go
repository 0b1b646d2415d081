package store

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFlusherCoalescesPerKey(t *testing.T) {
	m := newMemStore()
	f := NewFlusher(m, nil)
	f.Submit("user_points", []byte(`{"u1":5}`))
	f.Submit("user_points", []byte(`{"u1":10}`))
	f.Submit("sellers", []byte(`["@Vendor1"]`))
	f.Flush(context.Background())

	if got := m.saveCount(); got != 2 {
		t.Fatalf("saves = %d, want 2", got)
	}
	if string(m.blobs["user_points"]) != `{"u1":10}` {
		t.Fatalf("user_points = %s, want newest blob", m.blobs["user_points"])
	}
	if m.saves[0] != "user_points" || m.saves[1] != "sellers" {
		t.Fatalf("save order = %v, want submission order", m.saves)
	}
}

func TestFlusherReportsFailures(t *testing.T) {
	m := newMemStore()
	m.failKey = "handles"
	var mu sync.Mutex
	results := map[string]error{}
	f := NewFlusher(m, func(key string, err error) {
		mu.Lock()
		results[key] = err
		mu.Unlock()
	})
	f.Submit("handles", []byte(`{}`))
	f.Submit("sellers", []byte(`[]`))
	f.Flush(context.Background())

	if results["handles"] == nil {
		t.Fatal("handles save err = nil, want failure reported")
	}
	if results["sellers"] != nil {
		t.Fatalf("sellers save err = %v, want nil", results["sellers"])
	}
}

func TestFlusherDrainsOnShutdown(t *testing.T) {
	m := newMemStore()
	f := NewFlusher(m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	f.Start(ctx)
	f.Submit("announcement_text", []byte(`"vote now"`))
	cancel()

	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("flusher did not stop")
	}
	if string(m.blobs["announcement_text"]) != `"vote now"` {
		t.Fatalf("announcement_text = %s, want saved before exit", m.blobs["announcement_text"])
	}
}
