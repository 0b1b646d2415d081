package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type JobFunc func(ctx context.Context) error

type job struct {
	name string
	next func(now time.Time) time.Time
	run  JobFunc
}

// Scheduler fires jobs at fixed wall-clock times in one location.
type Scheduler struct {
	clock clockwork.Clock
	loc   *time.Location
	onRun func(name string, took time.Duration, err error)

	mu   sync.Mutex
	jobs []job
	wg   sync.WaitGroup
}

func New(clock clockwork.Clock, loc *time.Location) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{clock: clock, loc: loc}
}

// OnRun registers a hook called after every job run.
func (s *Scheduler) OnRun(fn func(name string, took time.Duration, err error)) {
	s.onRun = fn
}

func (s *Scheduler) Daily(name string, hour, minute int, fn JobFunc) {
	loc := s.loc
	s.add(job{name: name, run: fn, next: func(now time.Time) time.Time {
		return NextDaily(now, loc, hour, minute)
	}})
}

func (s *Scheduler) Weekly(name string, day time.Weekday, hour, minute int, fn JobFunc) {
	loc := s.loc
	s.add(job{name: name, run: fn, next: func(now time.Time) time.Time {
		return NextWeekly(now, loc, day, hour, minute)
	}})
}

func (s *Scheduler) add(j job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
}

// Start launches one timer loop per job; they exit when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]job(nil), s.jobs...)
	s.mu.Unlock()
	for _, j := range jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait blocks until every loop started by Start has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()
	for {
		now := s.clock.Now()
		at := j.next(now)
		timer := s.clock.NewTimer(at.Sub(now))
		log.Debug().Str("job", j.name).Time("next_run", at).Msg("job scheduled")
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
			s.execute(ctx, j)
		}
	}
}

// RunNow runs the named job on the calling goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var found *job
	for i := range s.jobs {
		if s.jobs[i].name == name {
			j := s.jobs[i]
			found = &j
			break
		}
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, *found)
}

func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		names = append(names, j.name)
	}
	return names
}

func (s *Scheduler) execute(ctx context.Context, j job) (err error) {
	start := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}
		took := s.clock.Since(start)
		if err != nil {
			log.Error().Err(err).Str("job", j.name).Msg("job failed")
		} else {
			log.Info().Str("job", j.name).Dur("took", took).Msg("job finished")
		}
		if s.onRun != nil {
			s.onRun(j.name, took, err)
		}
	}()
	return j.run(ctx)
}

// NextDaily returns the first hour:minute in loc strictly after now.
func NextDaily(now time.Time, loc *time.Location, hour, minute int) time.Time {
	local := now.In(loc)
	t := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !t.After(now) {
		t = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return t
}

// NextWeekly returns the first day at hour:minute in loc strictly after now.
func NextWeekly(now time.Time, loc *time.Location, day time.Weekday, hour, minute int) time.Time {
	local := now.In(loc)
	ahead := (int(day) - int(local.Weekday()) + 7) % 7
	t := time.Date(local.Year(), local.Month(), local.Day()+ahead, hour, minute, 0, 0, loc)
	if !t.After(now) {
		t = time.Date(local.Year(), local.Month(), local.Day()+ahead+7, hour, minute, 0, 0, loc)
	}
	return t
}
