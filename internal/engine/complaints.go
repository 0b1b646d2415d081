package engine

import (
	"sort"
	"strconv"
	"strings"

	"reputation-bot/internal/ledger"

	"github.com/rs/zerolog/log"
)

// FileComplaint stages a downvote for moderator approval. The vote event is
// recorded at once; tallies change only on approval.
func (e *Engine) FileComplaint(complainant int64, tag, reason string) (Complaint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()

	last, ok := e.lastComplain[complainant]
	if days, active := cooldownRemaining(last, ok, now, ComplaintCooldown); active {
		e.metrics.Complaint("file", "cooldown")
		return Complaint{}, &CooldownError{Action: "complaint", DaysRemaining: days, Until: last.Add(ComplaintCooldown)}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		e.metrics.Complaint("file", "missing_reason")
		return Complaint{}, ErrMissingReason
	}
	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		e.metrics.Complaint("file", "unknown_seller")
		return Complaint{}, ErrUnknownSeller
	}

	e.complaintSeq++
	c := &Complaint{
		ID:          e.complaintSeq,
		Seller:      seller,
		Complainant: complainant,
		Reason:      reason,
		FiledAt:     now,
		Status:      ComplaintPending,
	}
	e.pending[c.ID] = c
	e.downvoters[complainant] = struct{}{}
	e.history[seller] = append(e.history[seller], VoteEvent{Voter: complainant, Direction: DirectionDown, Reason: reason, At: now})
	e.credit(complainant, ComplaintPoints, ledger.TypeComplaintCredit, "complaint", strconv.Itoa(c.ID), now)
	e.lastComplain[complainant] = now

	e.persistLocked(KeyVoteHistory, KeyUserPoints)
	e.metrics.Complaint("file", "ok")
	log.Info().Int("complaint_id", c.ID).Str("seller", seller).Int64("user_id", complainant).Msg("complaint filed")
	out := *c
	e.notify(Event{Kind: EventComplaintFiled, At: now, Seller: seller, Complaint: &out})
	return out, nil
}

// ApproveComplaint applies a -1 to every horizon. The monthly entry is
// back-dated to the filing time. A complaint whose seller has since been
// removed is discarded with ErrUnknownSeller.
func (e *Engine) ApproveComplaint(approver int64, id int) (Complaint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(approver) {
		e.metrics.Complaint("approve", "not_authorized")
		return Complaint{}, ErrNotAuthorized
	}
	c, ok := e.pending[id]
	if !ok {
		e.metrics.Complaint("approve", "unknown")
		return Complaint{}, ErrUnknownComplaint
	}
	if e.resolveSellerLocked(c.Seller) != c.Seller {
		delete(e.pending, id)
		e.metrics.Complaint("approve", "unknown_seller")
		log.Warn().Int("complaint_id", id).Str("seller", c.Seller).Msg("complaint discarded, seller removed")
		return Complaint{}, ErrUnknownSeller
	}
	now := e.clock.Now()
	addTo(e.weekly, c.Seller, -1)
	addTo(e.allTime, c.Seller, -1)
	deltas, _ := e.monthly.Get(c.Seller)
	e.monthly.Set(c.Seller, append(deltas, MonthlyDelta{At: c.FiledAt, Delta: -1}))

	delete(e.pending, id)
	c.Status = ComplaintApproved
	approvedAt := now
	c.ApprovedAt = &approvedAt
	e.approved = append(e.approved, *c)

	e.persistLocked(KeyVotesWeekly, KeyVotesMonthly, KeyVotesAllTime, KeyApprovedComplaints)
	e.metrics.Complaint("approve", "ok")
	log.Info().Int("complaint_id", id).Str("seller", c.Seller).Msg("complaint approved")
	out := *c
	e.notify(Event{Kind: EventComplaintApproved, At: now, Seller: c.Seller, Complaint: &out})
	return out, nil
}

func (e *Engine) PendingComplaints() []Complaint {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Complaint, 0, len(e.pending))
	for _, c := range e.pending {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *Engine) ApprovedComplaints() []Complaint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Complaint(nil), e.approved...)
}
