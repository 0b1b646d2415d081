package ledger

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	TypeVoteCredit      = "vote_credit"
	TypeComplaintCredit = "complaint_credit"
	TypeChatAward       = "chat_award"
	TypeStreakBonus     = "streak_bonus"
	TypeCoinflipWin     = "coinflip_win"
	TypeCoinflipLoss    = "coinflip_loss"
	TypeAdminTopup      = "admin_topup"
)

const defaultCapacity = 5000

// Entry is one point mutation with the balance it produced.
type Entry struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	RefType      string    `json:"ref_type,omitempty"`
	RefID        string    `json:"ref_id,omitempty"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ledger is a bounded journal of point mutations, newest last. It persists
// as a JSON array of its entries.
type Ledger struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
}

func New(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Ledger{capacity: capacity}
}

func (l *Ledger) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.capacity; over > 0 {
		copy(l.entries, l.entries[over:])
		l.entries = l.entries[:l.capacity]
	}
}

// Query filters by user (0 = all) and returns newest first.
type Query struct {
	UserID int64
	Limit  int
	Offset int
}

func (l *Ledger) List(q Query) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	out := make([]Entry, 0, limit)
	skipped := 0
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := l.entries[i]
		if q.UserID != 0 && e.UserID != q.UserID {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.entries)
}

// UnmarshalJSON replaces the journal, keeping only the newest entries that
// fit the capacity.
func (l *Ledger) UnmarshalJSON(b []byte) error {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.capacity <= 0 {
		l.capacity = defaultCapacity
	}
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}
	l.entries = entries
	return nil
}
