package engine

import (
	"strconv"

	"reputation-bot/internal/ledger"

	"github.com/rs/zerolog/log"
)

// AddPoints is the admin top-up. Negative amounts debit.
func (e *Engine) AddPoints(actor, user, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(actor) {
		return 0, ErrNotAuthorized
	}
	if amount == 0 || user == 0 {
		return 0, ErrInvalidAmount
	}
	bal := e.credit(user, amount, ledger.TypeAdminTopup, "admin", strconv.FormatInt(actor, 10), e.clock.Now())
	e.persistLocked(KeyUserPoints)
	log.Info().Int64("user_id", user).Int64("amount", amount).Int64("balance", bal).Msg("points added")
	return bal, nil
}

func (e *Engine) Points(user int64) Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	bal, _ := e.points.Get(user)
	return Account{UserID: user, Handle: e.handles[user], Points: bal, Streak: e.streaks[user]}
}

// Accounts lists every known balance in first-seen order.
func (e *Engine) Accounts() []Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Account, 0, e.points.Len())
	for p := e.points.Oldest(); p != nil; p = p.Next() {
		user, bal := p.Key, p.Value
		out = append(out, Account{UserID: user, Handle: e.handles[user], Points: bal, Streak: e.streaks[user]})
	}
	return out
}
