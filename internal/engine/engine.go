package engine

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"reputation-bot/internal/ledger"
	"reputation-bot/internal/metrics"
	"reputation-bot/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	VoteCooldown      = 7 * 24 * time.Hour
	ComplaintCooldown = 7 * 24 * time.Hour
	MonthlyWindow     = 30 * 24 * time.Hour
	ChallengeTTL      = 300 * time.Second

	VotePoints      int64 = 5
	ComplaintPoints int64 = 5

	DailyMessageThreshold int64 = 50
	DailyMaxChatPoints    int64 = 3
	StreakBonusEvery            = 3

	DefaultPrompt = "Choose the seller you want to vote for:"
)

// Snapshot keys.
const (
	KeySellers            = "sellers"
	KeyVotesWeekly        = "votes_weekly"
	KeyVotesMonthly       = "votes_monthly"
	KeyVotesAllTime       = "votes_alltime"
	KeyVoteHistory        = "vote_history"
	KeyApprovedComplaints = "approved_complaints"
	KeyUserPoints         = "user_points"
	KeyAllTimeMessages    = "alltime_messages"
	KeyChatStreaks        = "chat_streaks"
	KeyLastChatDay        = "last_chat_day"
	KeyHandles            = "handles"
	KeyAnnouncement       = "announcement_text"
	KeyLedgerTail         = "ledger_tail"
)

var SnapshotKeys = []string{
	KeySellers, KeyVotesWeekly, KeyVotesMonthly, KeyVotesAllTime, KeyVoteHistory,
	KeyApprovedComplaints, KeyUserPoints, KeyAllTimeMessages, KeyChatStreaks,
	KeyLastChatDay, KeyHandles, KeyAnnouncement, KeyLedgerTail,
}

// Submitter accepts serialized snapshots for asynchronous saving.
type Submitter interface {
	Submit(key string, blob []byte)
}

type Options struct {
	Clock    clockwork.Clock
	Location *time.Location
	AdminID  int64
	Flusher  Submitter
	Notifier Notifier
	Metrics  *metrics.EngineMetrics
	Ledger   *ledger.Ledger
	// Coin reports whether the challenge initiator wins a coinflip.
	Coin          func() bool
	DefaultPrompt string
}

type poll struct {
	view   PollView
	voters map[int64]struct{}
}

// Engine owns all reputation, point and engagement state. Every exported
// method takes the single lock.
type Engine struct {
	clock    clockwork.Clock
	loc      *time.Location
	adminID  int64
	flusher  Submitter
	notifier Notifier
	metrics  *metrics.EngineMetrics
	ledger   *ledger.Ledger
	coin     func() bool

	mu sync.Mutex

	sellers []string
	weekly  *orderedmap.OrderedMap[string, int64]
	monthly *orderedmap.OrderedMap[string, []MonthlyDelta]
	allTime *orderedmap.OrderedMap[string, int64]
	history map[string][]VoteEvent

	pending      map[int]*Complaint
	approved     []Complaint
	complaintSeq int
	voters       map[int64]struct{}
	downvoters   map[int64]struct{}
	lastVoteAt   map[int64]time.Time
	lastComplain map[int64]time.Time

	points      *orderedmap.OrderedMap[int64, int64]
	daily       map[string]*orderedmap.OrderedMap[int64, int64]
	weeklyChat  *orderedmap.OrderedMap[int64, int64]
	allTimeChat *orderedmap.OrderedMap[int64, int64]
	streaks     map[int64]int
	lastChatDay map[int64]string

	handles     map[int64]string
	handleIndex map[string]int64

	challenges map[int64]*Challenge
	expiry     map[string]clockwork.Timer

	polls     map[string]*poll
	pollOrder []string

	announcement Announcement
}

func New(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	led := opts.Ledger
	if led == nil {
		led = ledger.New(0)
	}
	coin := opts.Coin
	if coin == nil {
		coin = func() bool { return rand.IntN(2) == 0 }
	}
	prompt := strings.TrimSpace(opts.DefaultPrompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &Engine{
		clock:        clock,
		loc:          loc,
		adminID:      opts.AdminID,
		flusher:      opts.Flusher,
		notifier:     opts.Notifier,
		metrics:      opts.Metrics,
		ledger:       led,
		coin:         coin,
		weekly:       newTally[string](),
		monthly:      orderedmap.New[string, []MonthlyDelta](),
		allTime:      newTally[string](),
		history:      make(map[string][]VoteEvent),
		pending:      make(map[int]*Complaint),
		voters:       make(map[int64]struct{}),
		downvoters:   make(map[int64]struct{}),
		lastVoteAt:   make(map[int64]time.Time),
		lastComplain: make(map[int64]time.Time),
		points:       newTally[int64](),
		daily:        make(map[string]*orderedmap.OrderedMap[int64, int64]),
		weeklyChat:   newTally[int64](),
		allTimeChat:  newTally[int64](),
		streaks:      make(map[int64]int),
		lastChatDay:  make(map[int64]string),
		handles:      make(map[int64]string),
		handleIndex:  make(map[string]int64),
		challenges:   make(map[int64]*Challenge),
		expiry:       make(map[string]clockwork.Timer),
		polls:        make(map[string]*poll),
		announcement: Announcement{Text: prompt},
	}
}

func (e *Engine) AdminID() int64 { return e.adminID }

func (e *Engine) IsAdmin(user int64) bool { return e.adminID != 0 && user == e.adminID }

func (e *Engine) Clock() clockwork.Clock { return e.clock }

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Load restores every persisted key. Missing or corrupt blobs keep defaults.
func (e *Engine) Load(ctx context.Context, st store.Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	loaded := 0
	for _, key := range SnapshotKeys {
		if store.LoadJSON(ctx, st, key, e.snapshotTarget(key)) {
			loaded++
		}
	}
	if e.history == nil {
		e.history = make(map[string][]VoteEvent)
	}
	if e.streaks == nil {
		e.streaks = make(map[int64]int)
	}
	if e.lastChatDay == nil {
		e.lastChatDay = make(map[int64]string)
	}
	if e.handles == nil {
		e.handles = make(map[int64]string)
	}
	e.rebuildHandleIndexLocked()
	log.Info().Int("keys", loaded).Int("sellers", len(e.sellers)).Int("users", e.points.Len()).Msg("engine state loaded")
}

// SeedSellers registers tags when the roster is empty.
func (e *Engine) SeedSellers(tags []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sellers) > 0 {
		return
	}
	for _, tag := range tags {
		tag = normalizeTag(tag)
		if tag == "" || e.resolveSellerLocked(tag) != "" {
			continue
		}
		e.sellers = append(e.sellers, tag)
	}
	if len(e.sellers) > 0 {
		e.persistLocked(KeySellers)
	}
}

// Close stops pending challenge expiry timers.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, t := range e.expiry {
		t.Stop()
		delete(e.expiry, id)
	}
}

func (e *Engine) snapshotTarget(key string) any {
	switch key {
	case KeySellers:
		return &e.sellers
	case KeyVotesWeekly:
		return e.weekly
	case KeyVotesMonthly:
		return e.monthly
	case KeyVotesAllTime:
		return e.allTime
	case KeyVoteHistory:
		return &e.history
	case KeyApprovedComplaints:
		return &e.approved
	case KeyUserPoints:
		return e.points
	case KeyAllTimeMessages:
		return e.allTimeChat
	case KeyChatStreaks:
		return &e.streaks
	case KeyLastChatDay:
		return &e.lastChatDay
	case KeyHandles:
		return &e.handles
	case KeyAnnouncement:
		return &e.announcement
	case KeyLedgerTail:
		return e.ledger
	}
	return nil
}

func (e *Engine) persistLocked(keys ...string) {
	if e.flusher == nil {
		return
	}
	for _, key := range keys {
		e.submitLocked(key)
		// every balance change also appends to the journal
		if key == KeyUserPoints {
			e.submitLocked(KeyLedgerTail)
		}
	}
}

func (e *Engine) submitLocked(key string) {
	b, err := json.Marshal(e.snapshotTarget(key))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("snapshot encode failed")
		return
	}
	e.flusher.Submit(key, b)
}

// PersistAll queues every key, used after manual edits and on shutdown.
func (e *Engine) PersistAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persistLocked(SnapshotKeys...)
}

// SetNotifier replaces the event receiver. Transports that need the engine
// to construct themselves register here after New.
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

func (e *Engine) notify(ev Event) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ev)
}

func (e *Engine) credit(user, amount int64, entryType, refType, refID string, now time.Time) int64 {
	bal := addTo(e.points, user, amount)
	e.ledger.Append(ledger.Entry{
		ID:           store.NewIDAt(now),
		UserID:       user,
		Type:         entryType,
		Amount:       amount,
		RefType:      refType,
		RefID:        refID,
		BalanceAfter: bal,
		CreatedAt:    now,
	})
	e.metrics.Points(entryType, amount)
	return bal
}

func (e *Engine) localDate(t time.Time) string {
	return t.In(e.loc).Format(time.DateOnly)
}

// cooldownRemaining reports whole days left, at least one, while last is
// within period of now. A last time in the future counts as active.
func cooldownRemaining(last time.Time, ok bool, now time.Time, period time.Duration) (int, bool) {
	if !ok {
		return 0, false
	}
	elapsed := now.Sub(last)
	if elapsed >= period {
		return 0, false
	}
	days := int((period - elapsed) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days, true
}
