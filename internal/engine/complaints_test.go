package engine

import (
	"errors"
	"testing"
	"time"
)

func TestComplaintApprovalScenario(t *testing.T) {
	env := newTestEnv(t)
	filedAt := env.clock.Now()

	c, err := env.eng.FileComplaint(userA, "@Vendor1", "late delivery")
	if err != nil {
		t.Fatalf("FileComplaint: %v", err)
	}
	if c.ID != 1 || c.Status != ComplaintPending {
		t.Fatalf("complaint = %+v, want pending #1", c)
	}
	if info := mustInfo(t, env.eng, "@Vendor1"); info.Weekly != 0 || info.AllTime != 0 {
		t.Fatalf("tallies before approval = %+v, want unchanged", info)
	}
	if got := env.eng.Points(userA).Points; got != 5 {
		t.Fatalf("complainant points = %d, want 5", got)
	}
	hist := env.eng.VoteHistory("@Vendor1")
	if len(hist) != 1 || hist[0].Direction != DirectionDown || hist[0].Reason != "late delivery" {
		t.Fatalf("history = %+v, want down vote recorded at filing", hist)
	}

	env.clock.Advance(time.Hour)
	approved, err := env.eng.ApproveComplaint(testAdmin, c.ID)
	if err != nil {
		t.Fatalf("ApproveComplaint: %v", err)
	}
	if approved.Status != ComplaintApproved || approved.ApprovedAt == nil {
		t.Fatalf("approved = %+v, want approved with timestamp", approved)
	}
	info := mustInfo(t, env.eng, "@Vendor1")
	if info.Weekly != -1 || info.AllTime != -1 || info.Monthly != -1 || info.Downvotes30d != 1 {
		t.Fatalf("info after approval = %+v, want -1/-1/-1 and one downvote", info)
	}

	deltas, _ := env.eng.monthly.Get("@Vendor1")
	if len(deltas) != 1 || !deltas[0].At.Equal(filedAt) {
		t.Fatalf("monthly deltas = %+v, want back-dated to filing time", deltas)
	}

	_, err = env.eng.ApproveComplaint(testAdmin, c.ID)
	if !errors.Is(err, ErrUnknownComplaint) || KindOf(err) != KindUnknownEntity {
		t.Fatalf("second approval err = %v, want ErrUnknownComplaint", err)
	}
	if info := mustInfo(t, env.eng, "@Vendor1"); info.AllTime != -1 {
		t.Fatalf("AllTime after repeated approval = %d, want -1", info.AllTime)
	}
	if env.events.count(EventComplaintFiled) != 1 || env.events.count(EventComplaintApproved) != 1 {
		t.Fatalf("events = %v, want one filed and one approved", env.events.kinds())
	}
}

func TestApproveRequiresModerator(t *testing.T) {
	env := newTestEnv(t)
	c, err := env.eng.FileComplaint(userA, "@Vendor1", "never shipped")
	if err != nil {
		t.Fatalf("FileComplaint: %v", err)
	}
	_, err = env.eng.ApproveComplaint(userB, c.ID)
	if !errors.Is(err, ErrNotAuthorized) || KindOf(err) != KindNotAuthorized {
		t.Fatalf("err = %v, want ErrNotAuthorized", err)
	}
	if len(env.eng.PendingComplaints()) != 1 {
		t.Fatal("complaint left pending list after unauthorized approval")
	}
}

func TestFileComplaintValidation(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.eng.FileComplaint(userA, "@Vendor1", "   "); !errors.Is(err, ErrMissingReason) {
		t.Fatalf("blank reason err = %v, want ErrMissingReason", err)
	}
	if _, err := env.eng.FileComplaint(userA, "@Ghost", "scam"); !errors.Is(err, ErrUnknownSeller) {
		t.Fatalf("unknown seller err = %v, want ErrUnknownSeller", err)
	}
	if _, err := env.eng.FileComplaint(userA, "@Vendor1", "scam"); err != nil {
		t.Fatalf("FileComplaint: %v", err)
	}
	env.clock.Advance(2 * 24 * time.Hour)
	_, err := env.eng.FileComplaint(userA, "@Vendor2", "also bad")
	var cd *CooldownError
	if !errors.As(err, &cd) || cd.DaysRemaining != 5 || cd.Action != "complaint" {
		t.Fatalf("err = %v, want complaint cooldown with 5 days", err)
	}

	second, err := env.eng.FileComplaint(userB, "@Vendor2", "rude")
	if err != nil {
		t.Fatalf("FileComplaint(userB): %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("second complaint id = %d, want 2", second.ID)
	}
	pending := env.eng.PendingComplaints()
	if len(pending) != 2 || pending[0].ID != 1 || pending[1].ID != 2 {
		t.Fatalf("pending = %+v, want ids 1,2", pending)
	}
}

func TestAllTimeEqualsSumOfAppliedDeltas(t *testing.T) {
	env := newTestEnv(t)
	var applied int64
	for u := int64(10); u < 15; u++ {
		if _, err := env.eng.CastUpvote(u, "@Vendor1"); err != nil {
			t.Fatalf("CastUpvote(%d): %v", u, err)
		}
		applied++
	}
	for u := int64(20); u < 23; u++ {
		c, err := env.eng.FileComplaint(u, "@Vendor1", "bad batch")
		if err != nil {
			t.Fatalf("FileComplaint(%d): %v", u, err)
		}
		if u != 22 {
			if _, err := env.eng.ApproveComplaint(testAdmin, c.ID); err != nil {
				t.Fatalf("ApproveComplaint(%d): %v", c.ID, err)
			}
			applied--
		}
	}
	env.eng.ResetWeeklyVotes()
	if info := mustInfo(t, env.eng, "@Vendor1"); info.AllTime != applied {
		t.Fatalf("AllTime = %d, want %d", info.AllTime, applied)
	}
}

func TestApproveAfterSellerRemovedIsDiscarded(t *testing.T) {
	env := newTestEnv(t)
	c, err := env.eng.FileComplaint(userA, "@Vendor1", "late")
	if err != nil {
		t.Fatalf("FileComplaint: %v", err)
	}
	if _, err := env.eng.RemoveSeller(testAdmin, "@Vendor1"); err != nil {
		t.Fatalf("RemoveSeller: %v", err)
	}

	if _, err := env.eng.ApproveComplaint(testAdmin, c.ID); !errors.Is(err, ErrUnknownSeller) {
		t.Fatalf("ApproveComplaint err = %v, want ErrUnknownSeller", err)
	}
	for _, w := range []Window{WindowWeekly, WindowMonthly, WindowAllTime} {
		board, _ := env.eng.TopSellers(w, 10)
		for _, s := range board {
			if s.Seller == "@Vendor1" {
				t.Fatalf("%s board = %+v, removed seller came back", w, board)
			}
		}
	}
	if got := env.eng.PendingComplaints(); len(got) != 0 {
		t.Fatalf("pending = %+v, want discarded", got)
	}
	if _, err := env.eng.ApproveComplaint(testAdmin, c.ID); !errors.Is(err, ErrUnknownComplaint) {
		t.Fatalf("second approve err = %v, want ErrUnknownComplaint", err)
	}
}
