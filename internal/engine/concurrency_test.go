package engine

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestConcurrentMutationsKeepInvariants(t *testing.T) {
	env := newTestEnv(t)
	env.chat(userA, "alice", 1)
	env.chat(userB, "bob", 1)
	env.fund(t, userA, 1000)
	env.fund(t, userB, 1000)

	sellers := []string{"@Vendor1", "@Vendor2"}
	var ups, approvals [2]atomic.Int64
	var wg sync.WaitGroup
	run := func(n int, fn func(i int)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				fn(i)
			}
		}()
	}

	for g := 0; g < 4; g++ {
		base := int64(100 + g*100)
		run(50, func(i int) {
			idx := i % 2
			if _, err := env.eng.CastUpvote(base+int64(i), sellers[idx]); err == nil {
				ups[idx].Add(1)
			}
		})
		run(50, func(i int) {
			env.eng.RecordMessage(base+int64(i%7), "")
		})
	}
	run(40, func(i int) {
		c, err := env.eng.FileComplaint(int64(5000+i), sellers[i%2], "late")
		if err != nil {
			return
		}
		if _, err := env.eng.ApproveComplaint(testAdmin, c.ID); err == nil {
			approvals[i%2].Add(1)
		}
	})
	run(100, func(i int) {
		if i%2 == 0 {
			_, _ = env.eng.ProposeChallenge(userA, "@bob", 10, 1)
			_, _ = env.eng.AcceptChallenge(userB, 1)
		} else {
			_, _ = env.eng.ProposeChallenge(userB, "@alice", 10, 1)
			_, _ = env.eng.AcceptChallenge(userA, 1)
		}
	})
	run(20, func(i int) {
		switch i % 4 {
		case 0:
			env.eng.DailyAward()
		case 1:
			env.eng.ResetWeeklyVotes()
		case 2:
			_, _ = env.eng.TopSellers(WindowMonthly, 5)
		case 3:
			env.clock.Advance(ChallengeTTL / 2)
		}
	})
	run(10, func(int) { env.flush() })
	wg.Wait()

	if sum := env.eng.Points(userA).Points + env.eng.Points(userB).Points; sum != 2000 {
		t.Fatalf("A+B = %d, want 2000", sum)
	}
	for idx, seller := range sellers {
		want := ups[idx].Load() - approvals[idx].Load()
		if got := mustInfo(t, env.eng, seller).AllTime; got != want {
			t.Fatalf("%s allTime = %d, want %d", seller, got, want)
		}
	}
}
