package engine

import "time"

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

const UpvoteReason = "Button vote"

type Window string

const (
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowAllTime Window = "alltime"
)

func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowWeekly, WindowMonthly, WindowAllTime:
		return Window(s), nil
	case "all", "all_time":
		return WindowAllTime, nil
	}
	return "", ErrInvalidWindow
}

type VoteEvent struct {
	Voter     int64     `json:"voter"`
	Direction Direction `json:"direction"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

type MonthlyDelta struct {
	At    time.Time `json:"at"`
	Delta int64     `json:"delta"`
}

type VoteReceipt struct {
	Seller  string `json:"seller"`
	Weekly  int64  `json:"weekly"`
	AllTime int64  `json:"all_time"`
	Points  int64  `json:"points"`
}

type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "pending"
	ComplaintApproved ComplaintStatus = "approved"
)

type Complaint struct {
	ID          int             `json:"id"`
	Seller      string          `json:"seller"`
	Complainant int64           `json:"complainant"`
	Reason      string          `json:"reason"`
	FiledAt     time.Time       `json:"filed_at"`
	Status      ComplaintStatus `json:"status"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
}

type Account struct {
	UserID int64  `json:"user_id"`
	Handle string `json:"handle,omitempty"`
	Points int64  `json:"points"`
	Streak int    `json:"streak"`
}

type SellerStanding struct {
	Seller string `json:"seller"`
	Score  int64  `json:"score"`
}

type ChatterStanding struct {
	UserID   int64  `json:"user_id"`
	Handle   string `json:"handle,omitempty"`
	Messages int64  `json:"messages"`
}

type SellerInfo struct {
	Seller       string `json:"seller"`
	Weekly       int64  `json:"weekly"`
	Monthly      int64  `json:"monthly"`
	AllTime      int64  `json:"all_time"`
	Downvotes30d int    `json:"downvotes_30d"`
}

type Challenge struct {
	ID              string    `json:"id"`
	Initiator       int64     `json:"initiator"`
	InitiatorHandle string    `json:"initiator_handle,omitempty"`
	Target          int64     `json:"target"`
	TargetHandle    string    `json:"target_handle,omitempty"`
	Amount          int64     `json:"amount"`
	ChatID          int64     `json:"chat_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type CoinflipResult struct {
	Challenge     Challenge `json:"challenge"`
	Winner        int64     `json:"winner"`
	WinnerHandle  string    `json:"winner_handle,omitempty"`
	Loser         int64     `json:"loser"`
	LoserHandle   string    `json:"loser_handle,omitempty"`
	WinnerBalance int64     `json:"winner_balance"`
	LoserBalance  int64     `json:"loser_balance"`
}

type PollView struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Creator   int64     `json:"creator"`
	Question  string    `json:"question"`
	Yes       int       `json:"yes"`
	No        int       `json:"no"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyAward struct {
	UserID      int64  `json:"user_id"`
	Handle      string `json:"handle,omitempty"`
	Messages    int64  `json:"messages"`
	ChatPoints  int64  `json:"chat_points"`
	StreakBonus int64  `json:"streak_bonus"`
	Streak      int    `json:"streak"`
	Balance     int64  `json:"balance"`
}

type ResetSummary struct {
	DroppedComplaints int `json:"dropped_complaints"`
	ClearedSellers    int `json:"cleared_sellers"`
}

// Announcement is the prompt shown above the vote buttons. Media is optional.
type Announcement struct {
	Text      string `json:"text"`
	MediaID   string `json:"media_id,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}
