package notify

import (
	"strconv"
	"strings"

	"reputation-bot/internal/engine"
)

type Router struct{}

func (r Router) MatchTargets(targets []Target, ev engine.Event) []Target {
	if len(targets) == 0 {
		return nil
	}
	out := make([]Target, 0, len(targets))
	for _, target := range targets {
		if !target.Enabled {
			continue
		}
		if !scopeMatches(target, ev) {
			continue
		}
		if !eventAllowed(target.EventAllowlist, string(ev.Kind)) {
			continue
		}
		out = append(out, target)
	}
	return out
}

func scopeMatches(target Target, ev engine.Event) bool {
	switch target.ScopeType {
	case "all":
		return true
	case "chat":
		return ev.ChatID != 0 && target.ScopeValue == strconv.FormatInt(ev.ChatID, 10)
	default:
		return false
	}
}

func eventAllowed(allowlist []string, kind string) bool {
	if len(allowlist) == 0 {
		return true
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	for _, v := range allowlist {
		if v == "" {
			continue
		}
		if strings.ToLower(strings.TrimSpace(v)) == kind {
			return true
		}
	}
	return false
}
