package engine

import "time"

type EventKind string

const (
	EventComplaintFiled    EventKind = "complaint_filed"
	EventComplaintApproved EventKind = "complaint_approved"
	EventChallengeExpired  EventKind = "challenge_expired"
	EventCoinflipResolved  EventKind = "coinflip_resolved"
	EventDailyAward        EventKind = "daily_award"
	EventWeeklyRecap       EventKind = "weekly_recap"
	EventVotesReset        EventKind = "votes_reset"
	EventSellerAdded       EventKind = "seller_added"
	EventSellerRemoved     EventKind = "seller_removed"
)

// Event is emitted after a state change other parties may announce.
type Event struct {
	Kind      EventKind         `json:"kind"`
	At        time.Time         `json:"at"`
	ChatID    int64             `json:"chat_id,omitempty"`
	Seller    string            `json:"seller,omitempty"`
	Complaint *Complaint        `json:"complaint,omitempty"`
	Challenge *Challenge        `json:"challenge,omitempty"`
	Coinflip  *CoinflipResult   `json:"coinflip,omitempty"`
	Awards    []DailyAward      `json:"awards,omitempty"`
	Top       []ChatterStanding `json:"top,omitempty"`
	Reset     *ResetSummary     `json:"reset,omitempty"`
}

// Notifier receives engine events. Notify is called with the engine lock held,
// so it must not block and must not call back into the engine.
type Notifier interface {
	Notify(ev Event)
}

type NotifierFunc func(ev Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Notifiers fans one event out to several receivers.
type Notifiers []Notifier

func (ns Notifiers) Notify(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ev)
		}
	}
}
