package engine

import (
	"strings"

	"github.com/rs/zerolog/log"
)

func normalizeTag(tag string) string {
	return strings.TrimSpace(tag)
}

// resolveSellerLocked returns the registered casing of tag, or "".
func (e *Engine) resolveSellerLocked(tag string) string {
	tag = normalizeTag(tag)
	if tag == "" {
		return ""
	}
	for _, s := range e.sellers {
		if strings.EqualFold(s, tag) {
			return s
		}
	}
	return ""
}

func (e *Engine) AddSeller(actor int64, tag string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(actor) {
		return "", ErrNotAuthorized
	}
	tag = normalizeTag(tag)
	if tag == "" {
		return "", ErrInvalidSeller
	}
	if e.resolveSellerLocked(tag) != "" {
		return "", ErrSellerExists
	}
	e.sellers = append(e.sellers, tag)
	e.persistLocked(KeySellers)
	log.Info().Str("seller", tag).Msg("seller added")
	e.notify(Event{Kind: EventSellerAdded, At: e.clock.Now(), Seller: tag})
	return tag, nil
}

// RemoveSeller drops the seller and its tallies. Vote history is kept.
func (e *Engine) RemoveSeller(actor int64, tag string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.IsAdmin(actor) {
		return "", ErrNotAuthorized
	}
	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		return "", ErrUnknownSeller
	}
	for i, s := range e.sellers {
		if s == seller {
			e.sellers = append(e.sellers[:i], e.sellers[i+1:]...)
			break
		}
	}
	e.weekly.Delete(seller)
	e.monthly.Delete(seller)
	e.allTime.Delete(seller)
	e.persistLocked(KeySellers, KeyVotesWeekly, KeyVotesMonthly, KeyVotesAllTime)
	log.Info().Str("seller", seller).Msg("seller removed")
	e.notify(Event{Kind: EventSellerRemoved, At: e.clock.Now(), Seller: seller})
	return seller, nil
}

func (e *Engine) Sellers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sellers...)
}

func (e *Engine) ResolveSeller(tag string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.resolveSellerLocked(tag)
	return s, s != ""
}

// VoteHistory returns the recorded events for a seller tag, including
// removed sellers.
func (e *Engine) VoteHistory(tag string) []VoteEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	seller := e.resolveSellerLocked(tag)
	if seller == "" {
		seller = normalizeTag(tag)
	}
	return append([]VoteEvent(nil), e.history[seller]...)
}
