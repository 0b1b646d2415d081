package engine

import "strings"

// normalizeHandle returns the display form "@name", or "" for a blank input.
func normalizeHandle(h string) string {
	h = strings.TrimSpace(h)
	if h == "" || h == "@" {
		return ""
	}
	if !strings.HasPrefix(h, "@") {
		h = "@" + h
	}
	return h
}

func handleKey(h string) string {
	return strings.ToLower(normalizeHandle(h))
}

// observeHandleLocked records the latest handle for user and reports whether
// the directory changed. A handle belongs to one user at a time: taking it
// removes it from the previous owner.
func (e *Engine) observeHandleLocked(user int64, handle string) bool {
	handle = normalizeHandle(handle)
	if handle == "" {
		return false
	}
	key := handleKey(handle)
	changed := false
	if owner, ok := e.handleIndex[key]; ok && owner != user {
		if handleKey(e.handles[owner]) == key {
			delete(e.handles, owner)
		}
		changed = true
	}
	if old, had := e.handles[user]; !had || old != handle {
		if had && handleKey(old) != key && e.handleIndex[handleKey(old)] == user {
			delete(e.handleIndex, handleKey(old))
		}
		e.handles[user] = handle
		changed = true
	}
	e.handleIndex[key] = user
	return changed
}

// rebuildHandleIndexLocked indexes loaded handles. If a snapshot lists one
// handle for several users the highest user id keeps it.
func (e *Engine) rebuildHandleIndexLocked() {
	e.handleIndex = make(map[string]int64, len(e.handles))
	for user, h := range e.handles {
		key := handleKey(h)
		if owner, ok := e.handleIndex[key]; ok && owner > user {
			continue
		}
		e.handleIndex[key] = user
	}
	for user, h := range e.handles {
		if e.handleIndex[handleKey(h)] != user {
			delete(e.handles, user)
		}
	}
}

// ResolveHandle looks a handle up by exact lowercased key.
func (e *Engine) ResolveHandle(handle string) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.handleIndex[handleKey(handle)]
	return id, ok
}

// Handle returns the last observed handle of user, or "".
func (e *Engine) Handle(user int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handles[user]
}
