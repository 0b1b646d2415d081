package engine

// RecordMessage counts one chat message from user and updates the streak and
// the handle directory.
func (e *Engine) RecordMessage(user int64, handle string) Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	today := e.localDate(now)
	yesterday := e.localDate(now.In(e.loc).AddDate(0, 0, -1))

	counts, ok := e.daily[today]
	if !ok {
		counts = newTally[int64]()
		e.daily[today] = counts
	}
	addTo(counts, user, 1)
	addTo(e.weeklyChat, user, 1)
	addTo(e.allTimeChat, user, 1)

	switch last := e.lastChatDay[user]; {
	case last == yesterday:
		e.streaks[user]++
	case last != today:
		e.streaks[user] = 1
	}
	e.lastChatDay[user] = today

	keys := []string{KeyAllTimeMessages, KeyChatStreaks, KeyLastChatDay}
	if e.observeHandleLocked(user, handle) {
		keys = append(keys, KeyHandles)
	}
	e.persistLocked(keys...)
	e.metrics.Message()

	bal, _ := e.points.Get(user)
	return Account{UserID: user, Handle: e.handles[user], Points: bal, Streak: e.streaks[user]}
}

// DailyCount returns the messages user sent on the given local date.
func (e *Engine) DailyCount(user int64, date string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts, ok := e.daily[date]
	if !ok {
		return 0
	}
	n, _ := counts.Get(user)
	return n
}
