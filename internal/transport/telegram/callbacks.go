package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reputation-bot/internal/engine"
)

func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	if q.From == nil {
		return
	}
	switch {
	case strings.HasPrefix(q.Data, votePrefix):
		b.onVote(q, strings.TrimPrefix(q.Data, votePrefix))
	case strings.HasPrefix(q.Data, pollPrefix):
		b.onPoll(q, strings.TrimPrefix(q.Data, pollPrefix))
	default:
		log.Warn().Str("data", q.Data).Int64("user_id", q.From.ID).Msg("unknown callback data")
		b.answer(q, "")
	}
}

func (b *Bot) onVote(q *tgbotapi.CallbackQuery, seller string) {
	if q.Message == nil {
		b.answer(q, "The vote message was not found. Please try again.")
		return
	}
	chatID := q.Message.Chat.ID
	log.Info().Int64("user_id", q.From.ID).Int64("chat_id", chatID).Str("seller", seller).Msg("vote attempt")

	receipt, err := b.engine.CastUpvote(q.From.ID, seller)
	var cd *engine.CooldownError
	switch {
	case err == nil:
	case engine.CodeOf(err) == engine.ErrUnknownSeller.Code:
		b.answer(q, "This seller is no longer valid!")
		return
	case errors.As(err, &cd):
		text := errorText(err)
		b.answer(q, text)
		b.sendText(chatID, fmt.Sprintf("%s, %s", displayName(q.From), lowerFirst(text)))
		return
	default:
		b.answer(q, errorText(err))
		return
	}

	b.answer(q, fmt.Sprintf("Thanks for your vote, %d points were added to your account.", engine.VotePoints))
	text := fmt.Sprintf("Thanks for your vote for %s, %d points added!", receipt.Seller, engine.VotePoints)
	if q.Message.Caption != "" || len(q.Message.Photo) > 0 || q.Message.Animation != nil || q.Message.Video != nil {
		b.send(tgbotapi.NewEditMessageCaption(chatID, q.Message.MessageID, text))
		return
	}
	b.send(tgbotapi.NewEditMessageText(chatID, q.Message.MessageID, text))
}

func (b *Bot) onPoll(q *tgbotapi.CallbackQuery, payload string) {
	i := strings.LastIndex(payload, "_")
	if i <= 0 {
		log.Warn().Str("data", q.Data).Msg("malformed poll callback")
		b.answer(q, "Voting error!")
		return
	}
	id, choice := payload[:i], payload[i+1:]
	if choice != "yes" && choice != "no" {
		b.answer(q, "Voting error!")
		return
	}
	p, err := b.engine.VotePoll(id, q.From.ID, choice == "yes")
	if err != nil {
		b.answer(q, errorText(err))
		return
	}
	if q.Message != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(q.Message.Chat.ID, q.Message.MessageID, renderPoll(p), pollKeyboard(p)))
	}
	b.answer(q, "Your vote was counted!")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
