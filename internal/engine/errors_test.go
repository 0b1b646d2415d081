package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindAndCodeSurviveWrapping(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		code string
	}{
		{fmt.Errorf("vote: %w", ErrUnknownSeller), KindUnknownEntity, "unknown_seller"},
		{&CooldownError{Action: "vote", DaysRemaining: 3}, KindCooldownActive, "cooldown_active"},
		{ErrWrongChat, KindConflict, "wrong_chat"},
		{errors.New("disk full"), "", ""},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.kind {
			t.Fatalf("KindOf(%v) = %q, want %q", tt.err, got, tt.kind)
		}
		if got := CodeOf(tt.err); got != tt.code {
			t.Fatalf("CodeOf(%v) = %q, want %q", tt.err, got, tt.code)
		}
	}
}

func TestParseWindow(t *testing.T) {
	if w, err := ParseWindow("all"); err != nil || w != WindowAllTime {
		t.Fatalf("ParseWindow(all) = (%q, %v), want alltime", w, err)
	}
	if _, err := ParseWindow("yearly"); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("ParseWindow(yearly) err = %v, want ErrInvalidWindow", err)
	}
}
