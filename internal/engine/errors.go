package engine

import (
	"errors"
	"fmt"
	"time"
)

type Kind string

const (
	KindNotAuthorized   Kind = "not_authorized"
	KindUnknownEntity   Kind = "unknown_entity"
	KindCooldownActive  Kind = "cooldown_active"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindExpired         Kind = "expired"
)

// Error is a failure the transport renders for the user. Code is stable and
// machine readable.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrNotAuthorized = newError(KindNotAuthorized, "not_authorized", "not authorized")

	ErrUnknownSeller     = newError(KindUnknownEntity, "unknown_seller", "seller is not registered")
	ErrUnknownComplaint  = newError(KindUnknownEntity, "unknown_complaint", "complaint is not pending")
	ErrNoActiveChallenge = newError(KindUnknownEntity, "no_active_challenge", "no active coinflip challenge")
	ErrUnknownPoll       = newError(KindUnknownEntity, "unknown_poll", "poll not found")

	ErrCooldownActive = newError(KindCooldownActive, "cooldown_active", "cooldown active")

	ErrMissingReason      = newError(KindInvalidArgument, "missing_reason", "complaint reason is required")
	ErrInvalidAmount      = newError(KindInvalidArgument, "invalid_amount", "invalid amount or not enough points")
	ErrInsufficientPoints = newError(KindInvalidArgument, "insufficient_points", "opponent does not have enough points")
	ErrInvalidSeller      = newError(KindInvalidArgument, "invalid_seller", "seller tag is required")
	ErrEmptyQuestion      = newError(KindInvalidArgument, "empty_question", "poll question is required")
	ErrEmptyAnnouncement  = newError(KindInvalidArgument, "empty_announcement", "announcement text is required")
	ErrInvalidWindow      = newError(KindInvalidArgument, "invalid_window", "unknown leaderboard window")

	ErrInvalidTarget  = newError(KindConflict, "invalid_target", "cannot challenge yourself or an unknown user")
	ErrWrongChat      = newError(KindConflict, "wrong_chat", "challenge belongs to another chat")
	ErrSellerExists   = newError(KindConflict, "seller_exists", "seller already registered")
	ErrAlreadyVoted   = newError(KindConflict, "already_voted", "already voted in this poll")
	ErrChallengeEnded = newError(KindExpired, "challenge_expired", "challenge expired")
)

// CooldownError reports a time-gated action attempted too early.
type CooldownError struct {
	Action        string
	DaysRemaining int
	Until         time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s cooldown active: %d days remaining", e.Action, e.DaysRemaining)
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldownActive }

// KindOf returns the kind of an engine error, or "" for anything else.
func KindOf(err error) Kind {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return KindCooldownActive
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the stable code of an engine error, or "" for anything else.
func CodeOf(err error) string {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return ErrCooldownActive.Code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
