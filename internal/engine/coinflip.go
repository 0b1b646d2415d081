package engine

import (
	"reputation-bot/internal/ledger"
	"reputation-bot/internal/store"

	"github.com/rs/zerolog/log"
)

// ProposeChallenge stores a coinflip keyed by the target, replacing any
// outstanding one, and arms its expiry.
func (e *Engine) ProposeChallenge(initiator int64, targetHandle string, amount, chatID int64) (Challenge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	if bal, _ := e.points.Get(initiator); amount <= 0 || bal < amount {
		e.metrics.Wager("invalid_amount")
		return Challenge{}, ErrInvalidAmount
	}
	target, ok := e.handleIndex[handleKey(targetHandle)]
	if !ok || target == initiator {
		e.metrics.Wager("invalid_target")
		return Challenge{}, ErrInvalidTarget
	}
	if bal, _ := e.points.Get(target); bal < amount {
		e.metrics.Wager("insufficient_points")
		return Challenge{}, ErrInsufficientPoints
	}

	if prev, ok := e.challenges[target]; ok {
		e.stopExpiryLocked(prev.ID)
		log.Info().Str("challenge_id", prev.ID).Int64("target", target).Msg("coinflip challenge replaced")
	}
	c := &Challenge{
		ID:              store.NewIDAt(now),
		Initiator:       initiator,
		InitiatorHandle: e.handles[initiator],
		Target:          target,
		TargetHandle:    e.handles[target],
		Amount:          amount,
		ChatID:          chatID,
		CreatedAt:       now,
	}
	e.challenges[target] = c
	id := c.ID
	e.expiry[id] = e.clock.AfterFunc(ChallengeTTL, func() { e.expireChallenge(target, id) })
	e.metrics.Wager("proposed")
	log.Info().Str("challenge_id", id).Int64("initiator", initiator).Int64("target", target).Int64("amount", amount).Msg("coinflip proposed")
	return *c, nil
}

// AcceptChallenge resolves the target's challenge with a fair coin. A stale
// or cross-chat acceptance drops the challenge.
func (e *Engine) AcceptChallenge(target, chatID int64) (CoinflipResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	c, ok := e.challenges[target]
	if !ok {
		return CoinflipResult{}, ErrNoActiveChallenge
	}
	if now.Sub(c.CreatedAt) > ChallengeTTL {
		e.dropChallengeLocked(target, c.ID)
		e.metrics.Wager("expired")
		return CoinflipResult{}, ErrChallengeEnded
	}
	if chatID != c.ChatID {
		e.dropChallengeLocked(target, c.ID)
		e.metrics.Wager("wrong_chat")
		return CoinflipResult{}, ErrWrongChat
	}

	winner, loser := c.Target, c.Initiator
	if e.coin() {
		winner, loser = c.Initiator, c.Target
	}
	winBal := e.credit(winner, c.Amount, ledger.TypeCoinflipWin, "coinflip", c.ID, now)
	loseBal := e.credit(loser, -c.Amount, ledger.TypeCoinflipLoss, "coinflip", c.ID, now)
	e.dropChallengeLocked(target, c.ID)
	e.persistLocked(KeyUserPoints)
	e.metrics.Wager("resolved")

	res := CoinflipResult{
		Challenge:     *c,
		Winner:        winner,
		WinnerHandle:  e.handles[winner],
		Loser:         loser,
		LoserHandle:   e.handles[loser],
		WinnerBalance: winBal,
		LoserBalance:  loseBal,
	}
	log.Info().Str("challenge_id", c.ID).Int64("winner", winner).Int64("loser", loser).Int64("amount", c.Amount).Msg("coinflip resolved")
	e.notify(Event{Kind: EventCoinflipResolved, At: now, ChatID: c.ChatID, Coinflip: &res})
	return res, nil
}

// PendingChallenge returns the challenge outstanding against target.
func (e *Engine) PendingChallenge(target int64) (Challenge, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.challenges[target]
	if !ok {
		return Challenge{}, false
	}
	return *c, true
}

// expireChallenge is a no-op unless the same instance is still outstanding.
func (e *Engine) expireChallenge(target int64, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.challenges[target]
	delete(e.expiry, id)
	if !ok || c.ID != id {
		return
	}
	delete(e.challenges, target)
	e.metrics.Wager("expired")
	log.Info().Str("challenge_id", id).Int64("target", target).Msg("coinflip expired")
	out := *c
	e.notify(Event{Kind: EventChallengeExpired, At: e.clock.Now(), ChatID: c.ChatID, Challenge: &out})
}

func (e *Engine) dropChallengeLocked(target int64, id string) {
	delete(e.challenges, target)
	e.stopExpiryLocked(id)
}

func (e *Engine) stopExpiryLocked(id string) {
	if t, ok := e.expiry[id]; ok {
		t.Stop()
		delete(e.expiry, id)
	}
}
