package engine

import (
	"time"

	"reputation-bot/internal/ledger"

	"github.com/rs/zerolog/log"
)

// CastUpvote records an upvote from voter, at most once per VoteCooldown.
func (e *Engine) CastUpvote(voter int64, tag string) (VoteReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		e.metrics.Vote("unknown_seller")
		return VoteReceipt{}, ErrUnknownSeller
	}
	last, ok := e.lastVoteAt[voter]
	if days, active := cooldownRemaining(last, ok, now, VoteCooldown); active {
		e.metrics.Vote("cooldown")
		return VoteReceipt{}, &CooldownError{Action: "vote", DaysRemaining: days, Until: last.Add(VoteCooldown)}
	}

	weekly := addTo(e.weekly, seller, 1)
	allTime := addTo(e.allTime, seller, 1)
	deltas, _ := e.monthly.Get(seller)
	e.monthly.Set(seller, append(deltas, MonthlyDelta{At: now, Delta: 1}))
	e.history[seller] = append(e.history[seller], VoteEvent{Voter: voter, Direction: DirectionUp, Reason: UpvoteReason, At: now})
	e.voters[voter] = struct{}{}
	e.lastVoteAt[voter] = now
	bal := e.credit(voter, VotePoints, ledger.TypeVoteCredit, "seller", seller, now)

	e.persistLocked(KeyVotesWeekly, KeyVotesMonthly, KeyVotesAllTime, KeyVoteHistory, KeyUserPoints)
	e.metrics.Vote("ok")
	log.Info().Int64("user_id", voter).Str("seller", seller).Int64("weekly", weekly).Int64("all_time", allTime).Msg("upvote recorded")
	return VoteReceipt{Seller: seller, Weekly: weekly, AllTime: allTime, Points: bal}, nil
}

// MonthlyScore sums the seller's deltas within MonthlyWindow of now.
func (e *Engine) MonthlyScore(tag string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		return 0, ErrUnknownSeller
	}
	return e.monthlyScoreLocked(seller, e.clock.Now()), nil
}

// monthlyScoreLocked prunes entries older than the window and sums the rest.
// The seller key stays even when nothing is left.
func (e *Engine) monthlyScoreLocked(seller string, now time.Time) int64 {
	deltas, ok := e.monthly.Get(seller)
	if !ok {
		return 0
	}
	kept := deltas[:0]
	var sum int64
	for _, d := range deltas {
		if now.Sub(d.At) < MonthlyWindow {
			kept = append(kept, d)
			sum += d.Delta
		}
	}
	e.monthly.Set(seller, kept)
	return sum
}

// Voted reports whether user voted since the last weekly reset.
func (e *Engine) Voted(user int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.voters[user]
	return ok
}
