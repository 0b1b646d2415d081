package feed

import "reputation-bot/internal/engine"

type sellerData struct {
	Seller      string `json:"seller"`
	ComplaintID int    `json:"complaint_id,omitempty"`
}

type duelData struct {
	Initiator string `json:"initiator"`
	Target    string `json:"target"`
	Amount    int64  `json:"amount"`
	Winner    string `json:"winner,omitempty"`
}

type awardData struct {
	Handle      string `json:"handle"`
	Messages    int64  `json:"messages"`
	Points      int64  `json:"points"`
	StreakBonus int64  `json:"streak_bonus,omitempty"`
	Streak      int    `json:"streak"`
}

type chatterData struct {
	Handle   string `json:"handle"`
	Messages int64  `json:"messages"`
}

// publicData strips user ids and moderation detail. Filed complaints stay
// private until approved, and users without a handle are left out.
func publicData(ev engine.Event) (any, bool) {
	switch ev.Kind {
	case engine.EventComplaintApproved:
		if ev.Complaint == nil {
			return nil, false
		}
		return sellerData{Seller: ev.Complaint.Seller, ComplaintID: ev.Complaint.ID}, true
	case engine.EventSellerAdded, engine.EventSellerRemoved:
		if ev.Seller == "" {
			return nil, false
		}
		return sellerData{Seller: ev.Seller}, true
	case engine.EventChallengeExpired:
		c := ev.Challenge
		if c == nil {
			return nil, false
		}
		return duelData{Initiator: c.InitiatorHandle, Target: c.TargetHandle, Amount: c.Amount}, true
	case engine.EventCoinflipResolved:
		r := ev.Coinflip
		if r == nil {
			return nil, false
		}
		return duelData{
			Initiator: r.Challenge.InitiatorHandle,
			Target:    r.Challenge.TargetHandle,
			Amount:    r.Challenge.Amount,
			Winner:    r.WinnerHandle,
		}, true
	case engine.EventDailyAward:
		out := make([]awardData, 0, len(ev.Awards))
		for _, a := range ev.Awards {
			if a.Handle == "" {
				continue
			}
			out = append(out, awardData{
				Handle:      a.Handle,
				Messages:    a.Messages,
				Points:      a.ChatPoints,
				StreakBonus: a.StreakBonus,
				Streak:      a.Streak,
			})
		}
		return out, len(out) > 0
	case engine.EventWeeklyRecap:
		out := make([]chatterData, 0, len(ev.Top))
		for _, c := range ev.Top {
			if c.Handle == "" {
				continue
			}
			out = append(out, chatterData{Handle: c.Handle, Messages: c.Messages})
		}
		return out, len(out) > 0
	case engine.EventVotesReset:
		return map[string]any{}, true
	}
	return nil, false
}
