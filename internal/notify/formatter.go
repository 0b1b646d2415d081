package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"reputation-bot/internal/engine"
	"reputation-bot/internal/notify/platforms"
)

const (
	reasonPreviewLimit = 300
	defaultFooter      = "reputation-bot"
)

func FormatMessage(ev engine.Event) (FormattedMessage, bool) {
	base := FormattedMessage{
		Kind:      ev.Kind,
		Timestamp: eventTimestamp(ev.At),
		Footer:    defaultFooter,
	}
	fields := make([]MessageField, 0, 6)

	switch ev.Kind {
	case engine.EventComplaintFiled:
		c := ev.Complaint
		if c == nil {
			return FormattedMessage{}, false
		}
		base.Title = fmt.Sprintf("Complaint #%d · %s", c.ID, c.Seller)
		base.Content = fmt.Sprintf("new complaint against %s awaits approval", c.Seller)
		base.Description = trimText(strings.TrimSpace(c.Reason), reasonPreviewLimit)
		base.Severity = platforms.SeverityPending
		fields = append(fields,
			MessageField{Name: "Seller", Value: c.Seller, Inline: true},
			MessageField{Name: "Complainant", Value: userText(c.Complainant, ""), Inline: true},
			MessageField{Name: "Status", Value: string(c.Status), Inline: true},
		)
	case engine.EventComplaintApproved:
		c := ev.Complaint
		if c == nil {
			return FormattedMessage{}, false
		}
		base.Title = fmt.Sprintf("Complaint #%d approved · %s", c.ID, c.Seller)
		base.Content = fmt.Sprintf("%s received a downvote", c.Seller)
		base.Description = trimText(strings.TrimSpace(c.Reason), reasonPreviewLimit)
		base.Severity = platforms.SeverityNegative
		fields = append(fields,
			MessageField{Name: "Seller", Value: c.Seller, Inline: true},
			MessageField{Name: "Filed", Value: eventTimestamp(c.FiledAt), Inline: true},
		)
	case engine.EventChallengeExpired:
		c := ev.Challenge
		if c == nil {
			return FormattedMessage{}, false
		}
		base.Title = "Coinflip expired"
		base.Content = fmt.Sprintf("%s did not answer %s", userText(c.Target, c.TargetHandle), userText(c.Initiator, c.InitiatorHandle))
		base.Description = base.Content
		base.Severity = platforms.SeverityInfo
		fields = append(fields, MessageField{Name: "Stake", Value: strconv.FormatInt(c.Amount, 10), Inline: true})
	case engine.EventCoinflipResolved:
		r := ev.Coinflip
		if r == nil {
			return FormattedMessage{}, false
		}
		winner := userText(r.Winner, r.WinnerHandle)
		loser := userText(r.Loser, r.LoserHandle)
		base.Title = "Coinflip resolved"
		base.Content = fmt.Sprintf("%s won %d points from %s", winner, r.Challenge.Amount, loser)
		base.Description = base.Content
		base.Severity = platforms.SeverityPositive
		fields = append(fields,
			MessageField{Name: "Winner", Value: fmt.Sprintf("%s (%d)", winner, r.WinnerBalance), Inline: true},
			MessageField{Name: "Loser", Value: fmt.Sprintf("%s (%d)", loser, r.LoserBalance), Inline: true},
		)
	case engine.EventDailyAward:
		if len(ev.Awards) == 0 {
			return FormattedMessage{}, false
		}
		lines := make([]string, 0, len(ev.Awards))
		for _, a := range ev.Awards {
			line := fmt.Sprintf("%s: %d messages, +%d", userText(a.UserID, a.Handle), a.Messages, a.ChatPoints)
			if a.StreakBonus > 0 {
				line += fmt.Sprintf(" +%d streak bonus (%d days)", a.StreakBonus, a.Streak)
			}
			lines = append(lines, line)
		}
		base.Title = "Daily chat awards"
		base.Content = fmt.Sprintf("%d chatters rewarded", len(ev.Awards))
		base.Description = strings.Join(lines, "\n")
		base.Severity = platforms.SeverityAward
	case engine.EventWeeklyRecap:
		if len(ev.Top) == 0 {
			return FormattedMessage{}, false
		}
		lines := make([]string, 0, len(ev.Top))
		for i, s := range ev.Top {
			lines = append(lines, fmt.Sprintf("%d. %s: %d messages", i+1, userText(s.UserID, s.Handle), s.Messages))
		}
		base.Title = "Weekly top chatters"
		base.Content = "weekly chat recap"
		base.Description = strings.Join(lines, "\n")
		base.Severity = platforms.SeverityAward
	case engine.EventVotesReset:
		base.Title = "Weekly votes reset"
		base.Content = "a new voting week has started"
		base.Description = base.Content
		base.Severity = platforms.SeverityInfo
		if ev.Reset != nil {
			fields = append(fields,
				MessageField{Name: "Sellers cleared", Value: strconv.Itoa(ev.Reset.ClearedSellers), Inline: true},
				MessageField{Name: "Complaints dropped", Value: strconv.Itoa(ev.Reset.DroppedComplaints), Inline: true},
			)
		}
	case engine.EventSellerAdded:
		base.Title = "Seller added"
		base.Content = fmt.Sprintf("%s can now receive votes", fallback(ev.Seller, "-"))
		base.Description = base.Content
		base.Severity = platforms.SeverityPositive
	case engine.EventSellerRemoved:
		base.Title = "Seller removed"
		base.Content = fmt.Sprintf("%s was removed from the roster", fallback(ev.Seller, "-"))
		base.Description = base.Content
		base.Severity = platforms.SeverityNegative
	default:
		return FormattedMessage{}, false
	}

	base.Fields = fields
	return base, true
}

func userText(id int64, handle string) string {
	if strings.TrimSpace(handle) != "" {
		return handle
	}
	return "user " + strconv.FormatInt(id, 10)
}

func trimText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func eventTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fallback(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
