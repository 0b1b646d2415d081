package telegram

import (
	"fmt"

	"reputation-bot/internal/engine"
)

// Notify renders engine events into the admin and group chats. It runs under
// the engine lock, so it only queues messages and never calls the engine
// back.
func (b *Bot) Notify(ev engine.Event) {
	switch ev.Kind {
	case engine.EventComplaintFiled:
		c := ev.Complaint
		if c == nil || b.engine.AdminID() == 0 {
			return
		}
		b.sendText(b.engine.AdminID(), fmt.Sprintf("Complaint #%d: %s - '%s' by User %d. Approve with /approve %d",
			c.ID, c.Seller, c.Reason, c.Complainant, c.ID))
	case engine.EventChallengeExpired:
		c := ev.Challenge
		if c == nil {
			return
		}
		b.sendText(c.ChatID, fmt.Sprintf("The challenge between %s and %s for %d points has expired!",
			userLabel(c.Initiator, c.InitiatorHandle), userLabel(c.Target, c.TargetHandle), c.Amount))
	case engine.EventDailyAward:
		for _, a := range ev.Awards {
			if a.Handle == "" {
				continue
			}
			text := fmt.Sprintf("%s, you got %d points for %d messages yesterday!", a.Handle, a.ChatPoints, a.Messages)
			if a.StreakBonus > 0 {
				text += fmt.Sprintf(" +%d for a %d-day streak!", a.StreakBonus, a.Streak)
			}
			text += fmt.Sprintf(" You now have %d points!", a.Balance)
			b.sendText(b.groupID, text)
		}
	case engine.EventWeeklyRecap:
		if len(ev.Top) == 0 {
			return
		}
		b.sendText(b.groupID, renderChatters("📢 Weekly chat kings 📢", ev.Top))
	case engine.EventVotesReset:
		b.sendText(b.groupID, "A new voting week has started!")
	}
}
