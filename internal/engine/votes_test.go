package engine

import (
	"errors"
	"testing"
	"time"
)

func TestUpvoteCooldownScenario(t *testing.T) {
	env := newTestEnv(t)

	r, err := env.eng.CastUpvote(userA, "@Vendor1")
	if err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	if r.Weekly != 1 || r.AllTime != 1 || r.Points != 5 {
		t.Fatalf("receipt = %+v, want weekly=1 all_time=1 points=5", r)
	}

	env.clock.Advance(3 * 24 * time.Hour)
	_, err = env.eng.CastUpvote(userA, "@Vendor1")
	var cd *CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("second vote err = %v, want CooldownError", err)
	}
	if cd.DaysRemaining != 4 {
		t.Fatalf("DaysRemaining = %d, want 4", cd.DaysRemaining)
	}
	if !errors.Is(err, ErrCooldownActive) || KindOf(err) != KindCooldownActive {
		t.Fatalf("cooldown err does not match ErrCooldownActive: %v", err)
	}
	if info := mustInfo(t, env.eng, "@Vendor1"); info.Weekly != 1 || info.AllTime != 1 {
		t.Fatalf("tally after rejected vote = %+v, want unchanged", info)
	}

	env.clock.Advance(5 * 24 * time.Hour)
	r, err = env.eng.CastUpvote(userA, "@Vendor1")
	if err != nil {
		t.Fatalf("vote at T0+8d: %v", err)
	}
	if r.Weekly != 2 {
		t.Fatalf("weekly = %d, want 2", r.Weekly)
	}
	if got := env.eng.Points(userA).Points; got != 10 {
		t.Fatalf("points = %d, want 10", got)
	}
}

func TestUpvoteCooldownAppliesAcrossSellers(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.eng.CastUpvote(userA, "@Vendor1"); err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	env.clock.Advance(6*24*time.Hour + 23*time.Hour)
	_, err := env.eng.CastUpvote(userA, "@Vendor2")
	var cd *CooldownError
	if !errors.As(err, &cd) || cd.DaysRemaining != 1 {
		t.Fatalf("err = %v, want cooldown with 1 day remaining", err)
	}
	if info := mustInfo(t, env.eng, "@Vendor2"); info.Weekly != 0 {
		t.Fatalf("Vendor2 weekly = %d, want 0", info.Weekly)
	}
}

func TestUpvoteUnknownSeller(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.eng.CastUpvote(userA, "@Nobody")
	if !errors.Is(err, ErrUnknownSeller) || KindOf(err) != KindUnknownEntity {
		t.Fatalf("err = %v, want ErrUnknownSeller", err)
	}
	if env.eng.Points(userA).Points != 0 {
		t.Fatal("points credited for rejected vote")
	}
}

func TestUpvoteMatchesSellerCaseInsensitively(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.eng.CastUpvote(userA, "@vendor1")
	if err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	if r.Seller != "@Vendor1" {
		t.Fatalf("Seller = %q, want registered casing @Vendor1", r.Seller)
	}
	hist := env.eng.VoteHistory("@Vendor1")
	if len(hist) != 1 || hist[0].Direction != DirectionUp || hist[0].Reason != UpvoteReason {
		t.Fatalf("history = %+v, want one button upvote", hist)
	}
}

func TestCooldownRemaining(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		last   time.Time
		has    bool
		days   int
		active bool
	}{
		{"never", time.Time{}, false, 0, false},
		{"just now", now, true, 7, true},
		{"six days twenty hours ago", now.Add(-(6*24 + 20) * time.Hour), true, 1, true},
		{"exactly seven days ago", now.Add(-7 * 24 * time.Hour), true, 0, false},
		{"clock moved backwards", now.Add(2 * time.Hour), true, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, active := cooldownRemaining(tt.last, tt.has, now, VoteCooldown)
			if days != tt.days || active != tt.active {
				t.Fatalf("cooldownRemaining = (%d, %v), want (%d, %v)", days, active, tt.days, tt.active)
			}
		})
	}
}

func TestMonthlyScorePrunesOldEntries(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.eng.CastUpvote(userA, "@Vendor1"); err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	env.clock.Advance(10 * 24 * time.Hour)
	if _, err := env.eng.CastUpvote(userB, "@Vendor1"); err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	if got, _ := env.eng.MonthlyScore("@Vendor1"); got != 2 {
		t.Fatalf("MonthlyScore = %d, want 2", got)
	}

	env.clock.Advance(21 * 24 * time.Hour)
	if got, _ := env.eng.MonthlyScore("@Vendor1"); got != 1 {
		t.Fatalf("MonthlyScore after 31d = %d, want 1", got)
	}
	env.clock.Advance(10 * 24 * time.Hour)
	if got, _ := env.eng.MonthlyScore("@Vendor1"); got != 0 {
		t.Fatalf("MonthlyScore after 41d = %d, want 0", got)
	}
	board, err := env.eng.TopSellers(WindowMonthly, 10)
	if err != nil {
		t.Fatalf("TopSellers: %v", err)
	}
	if len(board) != 1 || board[0].Seller != "@Vendor1" || board[0].Score != 0 {
		t.Fatalf("monthly board = %+v, want @Vendor1 kept at 0", board)
	}
	if info := mustInfo(t, env.eng, "@Vendor1"); info.AllTime != 2 {
		t.Fatalf("AllTime = %d, want 2 after pruning", info.AllTime)
	}
}
