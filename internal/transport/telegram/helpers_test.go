package telegram

import (
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"reputation-bot/internal/engine"
)

const (
	groupChat int64 = -100123
	otherChat int64 = -100999
	adminID   int64 = 1000
	alice     int64 = 1
	bob       int64 = 2
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type testBot struct {
	bot   *Bot
	api   *fakeAPI
	eng   *engine.Engine
	clock *clockwork.FakeClock
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	eng := engine.New(engine.Options{
		Clock:    clock,
		Location: time.UTC,
		AdminID:  adminID,
		Coin:     func() bool { return true },
	})
	t.Cleanup(eng.Close)
	eng.SeedSellers([]string{"@Vendor1", "@Vendor2"})
	api := &fakeAPI{}
	bot := New(api, eng, Options{GroupID: groupChat})
	eng.SetNotifier(bot)
	return &testBot{bot: bot, api: api, eng: eng, clock: clock}
}

// sent flushes the outbox and returns everything sent since the last call.
func (tb *testBot) sent() []tgbotapi.Chattable {
	tb.bot.outbox.flush()
	tb.api.mu.Lock()
	defer tb.api.mu.Unlock()
	out := tb.api.sent
	tb.api.sent = nil
	return out
}

func (tb *testBot) texts() []string {
	var out []string
	for _, c := range tb.sent() {
		out = append(out, chattableText(c))
	}
	return out
}

func (tb *testBot) answers() []string {
	tb.api.mu.Lock()
	defer tb.api.mu.Unlock()
	var out []string
	for _, c := range tb.api.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	tb.api.requests = nil
	return out
}

func chattableText(c tgbotapi.Chattable) string {
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		return v.Text
	case tgbotapi.EditMessageTextConfig:
		return v.Text
	case tgbotapi.EditMessageCaptionConfig:
		return v.Caption
	case tgbotapi.PhotoConfig:
		return v.Caption
	}
	return ""
}

func chatType(chatID int64) string {
	if chatID > 0 {
		return "private"
	}
	return "supergroup"
}

func (tb *testBot) command(chatID, from int64, username, text string) {
	name := strings.Fields(text)[0]
	tb.bot.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: from, UserName: username},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType(chatID)},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}})
}

func (tb *testBot) chat(from int64, username, text string) {
	tb.bot.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 11,
		From:      &tgbotapi.User{ID: from, UserName: username},
		Chat:      &tgbotapi.Chat{ID: groupChat, Type: "supergroup"},
		Text:      text,
	}})
}

func (tb *testBot) callback(from int64, username, data string, msg *tgbotapi.Message) {
	if msg == nil {
		msg = &tgbotapi.Message{MessageID: 20, Chat: &tgbotapi.Chat{ID: groupChat, Type: "supergroup"}}
	}
	tb.bot.HandleUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from, UserName: username},
		Message: msg,
		Data:    data,
	}})
}

func wantTexts(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("texts = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("text[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
