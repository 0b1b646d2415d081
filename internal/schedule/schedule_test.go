package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func vilnius(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestNextDaily(t *testing.T) {
	loc := vilnius(t)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before midnight", time.Date(2024, 5, 1, 23, 59, 0, 0, loc), time.Date(2024, 5, 2, 0, 0, 0, 0, loc)},
		{"exactly midnight", time.Date(2024, 5, 2, 0, 0, 0, 0, loc), time.Date(2024, 5, 3, 0, 0, 0, 0, loc)},
		{"month end", time.Date(2024, 2, 29, 12, 0, 0, 0, loc), time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDaily(tt.now, loc, 0, 0); !got.Equal(tt.want) {
				t.Fatalf("NextDaily(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestNextWeekly(t *testing.T) {
	loc := vilnius(t)
	// 2024-05-01 is a Wednesday.
	tests := []struct {
		name string
		now  time.Time
		day  time.Weekday
		hour int
		want time.Time
	}{
		{"recap later this week", time.Date(2024, 5, 1, 10, 0, 0, 0, loc), time.Sunday, 23, time.Date(2024, 5, 5, 23, 0, 0, 0, loc)},
		{"reset next monday", time.Date(2024, 5, 1, 10, 0, 0, 0, loc), time.Monday, 0, time.Date(2024, 5, 6, 0, 0, 0, 0, loc)},
		{"same day already passed", time.Date(2024, 5, 5, 23, 30, 0, 0, loc), time.Sunday, 23, time.Date(2024, 5, 12, 23, 0, 0, 0, loc)},
		{"same day still ahead", time.Date(2024, 5, 5, 22, 0, 0, 0, loc), time.Sunday, 23, time.Date(2024, 5, 5, 23, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextWeekly(tt.now, loc, tt.day, tt.hour, 0); !got.Equal(tt.want) {
				t.Fatalf("NextWeekly(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestSchedulerFiresDailyJob(t *testing.T) {
	loc := time.UTC
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 23, 0, 0, 0, loc))
	s := New(clock, loc)
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	s.Daily("daily_award", 0, 0, func(context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.Wait()
	}()
	s.Start(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("timer not armed: %v", err)
	}
	clock.Advance(59 * time.Minute)
	if got := runs.Load(); got != 0 {
		t.Fatalf("runs = %d before midnight, want 0", got)
	}
	clock.Advance(time.Minute)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("daily job did not fire at midnight")
	}
}

func TestRunNowRecoversPanicAndReports(t *testing.T) {
	s := New(clockwork.NewFakeClock(), time.UTC)
	var reported error
	s.OnRun(func(_ string, _ time.Duration, err error) { reported = err })
	s.Weekly("weekly_recap", time.Sunday, 23, 0, func(context.Context) error { panic("boom") })

	err := s.RunNow(context.Background(), "weekly_recap")
	if err == nil {
		t.Fatal("RunNow err = nil, want panic converted to error")
	}
	if !errors.Is(reported, err) {
		t.Fatalf("reported = %v, want %v", reported, err)
	}
	if err := s.RunNow(context.Background(), "missing"); err == nil {
		t.Fatal("RunNow(missing) err = nil, want error")
	}
}
