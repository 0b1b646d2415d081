package engine

import (
	"context"
	"time"

	"reputation-bot/internal/ledger"

	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	JobDailyAward   = "daily_award"
	JobWeeklyRecap  = "weekly_recap"
	JobResetVotes   = "reset_votes"
	WeeklyRecapSize = 3
)

// DailyAward pays users with at least DailyMessageThreshold messages on the
// previous local day, then clears every daily counter.
func (e *Engine) DailyAward() []DailyAward {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	yesterday := e.localDate(now.In(e.loc).AddDate(0, 0, -1))

	var awards []DailyAward
	if counts, ok := e.daily[yesterday]; ok {
		for p := counts.Oldest(); p != nil; p = p.Next() {
			user, n := p.Key, p.Value
			if n < DailyMessageThreshold {
				continue
			}
			chat := min(DailyMaxChatPoints, n/DailyMessageThreshold)
			streak := e.streaks[user]
			bonus := int64(streak / StreakBonusEvery)
			bal := e.credit(user, chat, ledger.TypeChatAward, "day", yesterday, now)
			if bonus > 0 {
				bal = e.credit(user, bonus, ledger.TypeStreakBonus, "day", yesterday, now)
			}
			awards = append(awards, DailyAward{
				UserID:      user,
				Handle:      e.handles[user],
				Messages:    n,
				ChatPoints:  chat,
				StreakBonus: bonus,
				Streak:      streak,
				Balance:     bal,
			})
		}
	}
	e.daily = make(map[string]*orderedmap.OrderedMap[int64, int64])
	e.persistLocked(KeyUserPoints)
	log.Info().Str("day", yesterday).Int("awarded", len(awards)).Msg("daily award finished")
	if len(awards) > 0 {
		e.notify(Event{Kind: EventDailyAward, At: now, Awards: awards})
	}
	return awards
}

// WeeklyRecap announces the top chatters of the week and clears the weekly
// counts.
func (e *Engine) WeeklyRecap() []ChatterStanding {
	e.mu.Lock()
	defer e.mu.Unlock()
	top := e.chattersLocked(e.weeklyChat, WeeklyRecapSize)
	e.weeklyChat = newTally[int64]()
	log.Info().Int("top", len(top)).Msg("weekly recap finished")
	if len(top) > 0 {
		e.notify(Event{Kind: EventWeeklyRecap, At: e.clock.Now(), Top: top})
	}
	return top
}

// ResetWeeklyVotes starts a new voting week. Pending complaints are dropped
// without notice and complaint ids restart.
func (e *Engine) ResetWeeklyVotes() ResetSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	summary := ResetSummary{DroppedComplaints: len(e.pending), ClearedSellers: e.weekly.Len()}
	for id, c := range e.pending {
		log.Warn().Int("complaint_id", id).Str("seller", c.Seller).Msg("pending complaint dropped by weekly reset")
	}
	e.weekly = newTally[string]()
	e.voters = make(map[int64]struct{})
	e.downvoters = make(map[int64]struct{})
	e.pending = make(map[int]*Complaint)
	e.lastVoteAt = make(map[int64]time.Time)
	e.complaintSeq = 0
	e.persistLocked(KeyVotesWeekly)
	log.Info().Int("dropped_complaints", summary.DroppedComplaints).Msg("weekly votes reset")
	e.notify(Event{Kind: EventVotesReset, At: e.clock.Now(), Reset: &summary})
	return summary
}

// Jobs adapts the maintenance jobs to scheduler callbacks.
func (e *Engine) Jobs() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		JobDailyAward:  func(context.Context) error { e.DailyAward(); return nil },
		JobWeeklyRecap: func(context.Context) error { e.WeeklyRecap(); return nil },
		JobResetVotes:  func(context.Context) error { e.ResetWeeklyVotes(); return nil },
	}
}
