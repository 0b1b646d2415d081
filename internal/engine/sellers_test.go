package engine

import (
	"errors"
	"testing"
)

func TestAddSellerRules(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.eng.AddSeller(userA, "@Vendor9"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("non-admin err = %v, want ErrNotAuthorized", err)
	}
	if _, err := env.eng.AddSeller(testAdmin, "@VENDOR1"); !errors.Is(err, ErrSellerExists) || KindOf(err) != KindConflict {
		t.Fatalf("duplicate err = %v, want ErrSellerExists", err)
	}
	if _, err := env.eng.AddSeller(testAdmin, "  "); !errors.Is(err, ErrInvalidSeller) {
		t.Fatalf("blank err = %v, want ErrInvalidSeller", err)
	}
	if _, err := env.eng.AddSeller(testAdmin, "@Vendor9"); err != nil {
		t.Fatalf("AddSeller: %v", err)
	}
	got := env.eng.Sellers()
	if len(got) != 3 || got[2] != "@Vendor9" {
		t.Fatalf("Sellers() = %v, want @Vendor9 appended", got)
	}
}

func TestRemoveSellerCascadesTallies(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.eng.CastUpvote(userA, "@Vendor1"); err != nil {
		t.Fatalf("CastUpvote: %v", err)
	}
	removed, err := env.eng.RemoveSeller(testAdmin, "@vendor1")
	if err != nil {
		t.Fatalf("RemoveSeller: %v", err)
	}
	if removed != "@Vendor1" {
		t.Fatalf("removed = %q, want @Vendor1", removed)
	}
	for _, w := range []Window{WindowWeekly, WindowMonthly, WindowAllTime} {
		board, _ := env.eng.TopSellers(w, 10)
		if len(board) != 0 {
			t.Fatalf("TopSellers(%s) = %+v, want empty after removal", w, board)
		}
	}
	if len(env.eng.VoteHistory("@Vendor1")) != 1 {
		t.Fatal("vote history dropped with seller")
	}
	if _, err := env.eng.CastUpvote(userB, "@Vendor1"); !errors.Is(err, ErrUnknownSeller) {
		t.Fatalf("vote for removed seller err = %v, want ErrUnknownSeller", err)
	}
	if _, err := env.eng.RemoveSeller(testAdmin, "@Vendor1"); !errors.Is(err, ErrUnknownSeller) {
		t.Fatalf("second remove err = %v, want ErrUnknownSeller", err)
	}
}
