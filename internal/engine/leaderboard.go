package engine

import orderedmap "github.com/wk8/go-ordered-map/v2"

// TopSellers ranks sellers present in the window's store. Zero scores are
// kept; ties follow insertion order.
func (e *Engine) TopSellers(w Window, limit int) ([]SellerStanding, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var src *orderedmap.OrderedMap[string, int64]
	switch w {
	case WindowWeekly:
		src = e.weekly
	case WindowAllTime:
		src = e.allTime
	case WindowMonthly:
		now := e.clock.Now()
		src = newTally[string]()
		for _, seller := range keysOf(e.monthly) {
			src.Set(seller, e.monthlyScoreLocked(seller, now))
		}
	default:
		return nil, ErrInvalidWindow
	}
	ranked := rank(src, limit)
	out := make([]SellerStanding, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, SellerStanding{Seller: r.key, Score: r.score})
	}
	return out, nil
}

func (e *Engine) TopChatters(w Window, limit int) ([]ChatterStanding, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch w {
	case WindowWeekly:
		return e.chattersLocked(e.weeklyChat, limit), nil
	case WindowAllTime:
		return e.chattersLocked(e.allTimeChat, limit), nil
	}
	return nil, ErrInvalidWindow
}

func (e *Engine) chattersLocked(src *orderedmap.OrderedMap[int64, int64], limit int) []ChatterStanding {
	ranked := rank(src, limit)
	out := make([]ChatterStanding, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, ChatterStanding{UserID: r.key, Handle: e.handles[r.key], Messages: r.score})
	}
	return out
}

// SellerInfo reports every horizon for one seller and initializes its
// tallies if they are missing.
func (e *Engine) SellerInfo(tag string) (SellerInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		return SellerInfo{}, ErrUnknownSeller
	}
	now := e.clock.Now()
	if _, ok := e.monthly.Get(seller); !ok {
		e.monthly.Set(seller, nil)
	}
	info := SellerInfo{
		Seller:  seller,
		Weekly:  touch(e.weekly, seller),
		Monthly: e.monthlyScoreLocked(seller, now),
		AllTime: touch(e.allTime, seller),
	}
	for _, c := range e.approved {
		if c.Seller == seller && now.Sub(c.FiledAt) < MonthlyWindow {
			info.Downvotes30d++
		}
	}
	return info, nil
}
