package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestOutboxDropsWhenFull(t *testing.T) {
	api := &fakeAPI{}
	o := newOutbox(api, 1, 2)
	for i := 0; i < 3; i++ {
		ok := o.enqueue(tgbotapi.NewMessage(groupChat, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("enqueue #%d = %v, want %v", i, ok, want)
		}
	}
	o.flush()
	if len(api.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(api.sent))
	}
}

func TestOutboxRunDeliversAndDrainsOnCancel(t *testing.T) {
	api := &fakeAPI{}
	o := newOutbox(api, 1000, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		o.enqueue(tgbotapi.NewMessage(groupChat, "hello"))
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		api.mu.Lock()
		n := len(api.sent)
		api.mu.Unlock()
		if n == 5 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("run did not return after cancel")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.sent) != 5 {
		t.Fatalf("sent = %d, want 5", len(api.sent))
	}
}

func TestParseUserRef(t *testing.T) {
	tb := newTestBot(t)
	tb.chat(alice, "Alice", "hi")
	cases := []struct {
		ref  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"@User77", 77, true},
		{"user88", 88, true},
		{"@alice", alice, true},
		{"@ALICE", alice, true},
		{"@users", 0, false},
		{"@nobody", 0, false},
	}
	for _, tc := range cases {
		got, ok := tb.bot.parseUserRef(tc.ref)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseUserRef(%q) = %d,%v, want %d,%v", tc.ref, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLowerFirst(t *testing.T) {
	if got := lowerFirst("You already voted!"); got != "you already voted!" {
		t.Fatalf("lowerFirst = %q", got)
	}
	if got := lowerFirst(""); got != "" {
		t.Fatalf("lowerFirst(\"\") = %q", got)
	}
}
