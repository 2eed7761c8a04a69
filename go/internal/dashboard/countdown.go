package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Countdown display states for the game cards.
const (
	DisplayFree      = "LIBRE"
	DisplayExhausted = "AGOTADO"
)

// Display computes the countdown text for a game as a pure function of
// occupancy and the remaining slot time, in priority order: a game with
// nobody playing is free regardless of the clock, an occupied game past
// its deadline is exhausted, otherwise the remaining time is shown.
func Display(occupancy int, remaining time.Duration) string {
	if occupancy == 0 {
		return DisplayFree
	}
	if remaining < 0 {
		return DisplayExhausted
	}
	return FormatRemaining(remaining)
}

// FormatRemaining renders a duration as "1h 2m 5s", omitting the hours
// component when it is zero.
func FormatRemaining(d time.Duration) string {
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// TickFunc receives the refreshed countdown text for one game.
type TickFunc func(gameID int64, text string)

// Scheduler drives the per-second countdown refresh for every game with a
// known start time. Exactly one run may be active: starting the scheduler
// replaces any prior ticker, so a dashboard reset can never leave two
// overlapping tick loops behind.
type Scheduler struct {
	clock clockwork.Clock
	store *Store
	tick  TickFunc

	mu     sync.Mutex
	starts map[int64]time.Time
	cancel context.CancelFunc
}

// NewScheduler creates a stopped scheduler over the given store.
func NewScheduler(clock clockwork.Clock, store *Store, tick TickFunc) *Scheduler {
	return &Scheduler{
		clock:  clock,
		store:  store,
		tick:   tick,
		starts: make(map[int64]time.Time),
	}
}

// SetStartTimes replaces the countdown deadlines.
func (s *Scheduler) SetStartTimes(starts map[int64]time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.starts = make(map[int64]time.Time, len(starts))
	for id, t := range starts {
		s.starts[id] = t
	}
}

// Start begins ticking once per second. Any previously running loop is
// cancelled first; the single-instance invariant is a hard requirement,
// not best effort.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(runCtx)
}

// Stop cancels the running tick loop, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := s.clock.NewTicker(time.Second)
	defer ticker.Stop()

	log.Debug().Msg("countdown scheduler started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("countdown scheduler stopped")
			return
		case <-ticker.Chan():
			s.refresh()
		}
	}
}

func (s *Scheduler) refresh() {
	now := s.clock.Now()

	s.mu.Lock()
	starts := make(map[int64]time.Time, len(s.starts))
	for id, t := range s.starts {
		starts[id] = t
	}
	s.mu.Unlock()

	for id, start := range starts {
		remaining := start.Sub(now)
		s.tick(id, Display(s.store.PlayersCount(id), remaining))
	}
}
