package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reputation-bot/internal/engine"
)

type Options struct {
	GroupID        int64
	SendRatePerSec float64
	QueueSize      int
}

// Bot maps Telegram updates onto engine operations and renders engine
// events into the group and admin chats.
type Bot struct {
	api     API
	engine  *engine.Engine
	outbox  *outbox
	groupID int64
	wg      sync.WaitGroup
}

var _ engine.Notifier = (*Bot)(nil)

func New(api API, eng *engine.Engine, opts Options) *Bot {
	return &Bot{
		api:     api,
		engine:  eng,
		outbox:  newOutbox(api, opts.SendRatePerSec, opts.QueueSize),
		groupID: opts.GroupID,
	}
}

// Start runs the outbound sender until ctx ends.
func (b *Bot) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.outbox.run(ctx)
	}()
}

// Run handles updates until ctx ends or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(u)
		}
	}
}

// Wait blocks until the sender has drained after shutdown.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) HandleUpdate(u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("update_id", u.UpdateID).Msg("telegram update handler panicked")
		}
	}()
	switch {
	case u.Message != nil:
		b.handleMessage(u.Message)
	case u.CallbackQuery != nil:
		b.handleCallback(u.CallbackQuery)
	}
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	if m.From == nil || m.Chat == nil || m.From.IsBot {
		return
	}
	if m.IsCommand() {
		b.handleCommand(m)
		return
	}
	if m.Chat.ID != b.groupID || strings.TrimSpace(m.Text) == "" {
		return
	}
	b.engine.RecordMessage(m.From.ID, m.From.UserName)
}

func (b *Bot) inGroup(m *tgbotapi.Message) bool {
	return m.Chat.ID == b.groupID
}

// inAdminChat is the admin talking to the bot privately.
func (b *Bot) inAdminChat(m *tgbotapi.Message) bool {
	return m.Chat.IsPrivate() && b.engine.IsAdmin(m.From.ID)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	b.outbox.enqueue(c)
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) reply(m *tgbotapi.Message, text string) {
	b.sendText(m.Chat.ID, text)
}

// answer acknowledges a callback right away; it bypasses the outbox.
func (b *Bot) answer(q *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, text)); err != nil {
		log.Warn().Err(err).Str("callback", q.Data).Msg("answer callback failed")
	}
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return userLabel(u.ID, "")
}

func userLabel(id int64, handle string) string {
	if handle != "" {
		return handle
	}
	return fmt.Sprintf("User %d", id)
}

// parseUserRef accepts a numeric id, "@User<id>" or a known @handle.
func (b *Bot) parseUserRef(ref string) (int64, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, true
	}
	trimmed := strings.TrimPrefix(ref, "@")
	if len(trimmed) > 4 && strings.EqualFold(trimmed[:4], "user") {
		if id, err := strconv.ParseInt(trimmed[4:], 10, 64); err == nil {
			return id, true
		}
	}
	return b.engine.ResolveHandle(ref)
}
