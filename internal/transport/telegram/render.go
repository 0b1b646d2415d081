package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reputation-bot/internal/engine"
)

const (
	mediaPhoto     = "photo"
	mediaAnimation = "animation"
	mediaVideo     = "video"

	votePrefix = "vote_"
	pollPrefix = "poll_"
)

func voteKeyboard(sellers []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sellers))
	for _, s := range sellers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(s, votePrefix+s)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// voteMessage renders the prompt with one button per seller, as a captioned
// media message when the prompt has media attached.
func voteMessage(chatID int64, a engine.Announcement, sellers []string) tgbotapi.Chattable {
	kb := voteKeyboard(sellers)
	if a.MediaID != "" {
		file := tgbotapi.FileID(a.MediaID)
		switch a.MediaType {
		case mediaPhoto:
			msg := tgbotapi.NewPhoto(chatID, file)
			msg.Caption = a.Text
			msg.ReplyMarkup = kb
			return msg
		case mediaAnimation:
			msg := tgbotapi.NewAnimation(chatID, file)
			msg.Caption = a.Text
			msg.ReplyMarkup = kb
			return msg
		case mediaVideo:
			msg := tgbotapi.NewVideo(chatID, file)
			msg.Caption = a.Text
			msg.ReplyMarkup = kb
			return msg
		}
	}
	msg := tgbotapi.NewMessage(chatID, a.Text)
	msg.ReplyMarkup = kb
	return msg
}

func pollKeyboard(p engine.PollView) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Yes (%d)", p.Yes), pollPrefix+p.ID+"_yes"),
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("No (%d)", p.No), pollPrefix+p.ID+"_no"),
	))
}

func renderPoll(p engine.PollView) string {
	return fmt.Sprintf("📊 Poll: %s\nVotes: Yes - %d, No - %d", p.Question, p.Yes, p.No)
}

func renderSellerInfo(info engine.SellerInfo) string {
	return fmt.Sprintf("%s info:\nWeek: %d\nMonth: %d\nAll time: %d\nDownvotes (30d): %d",
		info.Seller, info.Weekly, info.Monthly, info.AllTime, info.Downvotes30d)
}

func renderSellerBoards(weekly, monthly, allTime []engine.SellerStanding) string {
	var sb strings.Builder
	sb.WriteString("🏆 Weekly top sellers 🏆\n")
	if len(weekly) == 0 {
		sb.WriteString("No votes this week yet!\n")
	}
	for _, s := range weekly {
		fmt.Fprintf(&sb, "%s: %d\n", s.Seller, s.Score)
	}
	sb.WriteString("\n📅 Monthly top sellers 📅\n")
	if len(monthly) == 0 {
		sb.WriteString("No votes in the last 30 days!\n")
	}
	for _, s := range monthly {
		fmt.Fprintf(&sb, "%s: %d\n", s.Seller, s.Score)
	}
	sb.WriteString("\n🌟 All-time top 5 sellers 🌟\n")
	if len(allTime) == 0 {
		sb.WriteString("No votes yet!\n")
	}
	for i, s := range allTime {
		fmt.Fprintf(&sb, "%d. %s: %d\n", i+1, s.Seller, s.Score)
	}
	return sb.String()
}

func renderChatters(title string, top []engine.ChatterStanding) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, c := range top {
		fmt.Fprintf(&sb, "%s: %d messages\n", userLabel(c.UserID, c.Handle), c.Messages)
	}
	return sb.String()
}

// errorText turns an engine error into a reply. Unexpected errors are logged
// and get a generic answer.
func errorText(err error) string {
	var cd *engine.CooldownError
	if errors.As(err, &cd) {
		if cd.Action == "vote" {
			return fmt.Sprintf("You already voted! %d days left until your next vote.", cd.DaysRemaining)
		}
		return fmt.Sprintf("Wait 7 days after your last complaint! %d days left.", cd.DaysRemaining)
	}
	switch engine.CodeOf(err) {
	case engine.ErrNotAuthorized.Code:
		return textAdminOnly
	case engine.ErrUnknownSeller.Code:
		return "This seller is not on the trusted list!"
	case engine.ErrUnknownComplaint.Code:
		return "Invalid complaint ID!"
	case engine.ErrNoActiveChallenge.Code:
		return "There is no active challenge!"
	case engine.ErrChallengeEnded.Code, engine.ErrWrongChat.Code:
		return "The challenge expired or belongs to another group!"
	case engine.ErrUnknownPoll.Code:
		return "This poll is no longer active!"
	case engine.ErrAlreadyVoted.Code:
		return "You already voted in this poll!"
	case engine.ErrMissingReason.Code:
		return "Please give a reason!"
	case engine.ErrInvalidAmount.Code:
		return "Invalid amount or not enough points!"
	case engine.ErrInsufficientPoints.Code:
		return "Your opponent does not have enough points!"
	case engine.ErrInvalidTarget.Code:
		return "You cannot challenge yourself or an unknown user!"
	case engine.ErrSellerExists.Code:
		return "This seller is already on the trusted list!"
	case engine.ErrInvalidSeller.Code:
		return "Give a seller tag, like @VendorTag."
	case engine.ErrEmptyQuestion.Code:
		return "Usage: /poll Question"
	case engine.ErrEmptyAnnouncement.Code:
		return "Usage: /setprompt New text"
	}
	log.Error().Err(err).Msg("unexpected engine error")
	return "Something went wrong, try again later."
}
