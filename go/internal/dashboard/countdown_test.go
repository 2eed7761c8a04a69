package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciberteca/rental/go/internal/models"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name      string
		occupancy int
		remaining time.Duration
		want      string
	}{
		{"empty game is free", 0, 30 * time.Minute, DisplayFree},
		{"empty game is free even past deadline", 0, -time.Minute, DisplayFree},
		{"occupied past deadline is exhausted", 2, -time.Second, DisplayExhausted},
		{"occupied with minutes left", 1, 125 * time.Second, "2m 5s"},
		{"occupied with hours left", 1, 3725 * time.Second, "1h 2m 5s"},
		{"zero remaining still renders", 1, 0, "0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.occupancy, tt.remaining))
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "2m 5s", FormatRemaining(125*time.Second))
	assert.Equal(t, "1h 2m 5s", FormatRemaining(3725*time.Second))
	assert.Equal(t, "0m 59s", FormatRemaining(59*time.Second))
	assert.Equal(t, "59m 0s", FormatRemaining(59*time.Minute))
}

func storeWithGame(id int64, players ...string) *Store {
	store := NewStore()
	plays := make([]models.PlayData, 0, len(players))
	for _, p := range players {
		plays = append(plays, models.PlayData{StudentID: p})
	}
	store.Rebuild([]models.GameWithPlays{{
		Game:      models.Game{ID: id},
		Players:   len(players),
		PlaysData: plays,
	}})
	return store
}

func TestSchedulerTicksEverySecond(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := storeWithGame(7, "A01606010")

	ticks := make(chan string, 16)
	sched := NewScheduler(clock, store, func(gameID int64, text string) {
		ticks <- fmt.Sprintf("%d:%s", gameID, text)
	})
	defer sched.Stop()

	sched.SetStartTimes(map[int64]time.Time{7: clock.Now().Add(125 * time.Second)})
	sched.Start(context.Background())
	clock.BlockUntil(1)

	clock.Advance(time.Second)
	require.Equal(t, "7:2m 4s", <-ticks)

	clock.Advance(time.Second)
	require.Equal(t, "7:2m 3s", <-ticks)
}

func TestSchedulerEmptyGameReadsFree(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := storeWithGame(3)

	ticks := make(chan string, 16)
	sched := NewScheduler(clock, store, func(gameID int64, text string) {
		ticks <- text
	})
	defer sched.Stop()

	sched.SetStartTimes(map[int64]time.Time{3: clock.Now().Add(-time.Hour)})
	sched.Start(context.Background())
	clock.BlockUntil(1)

	clock.Advance(time.Second)
	require.Equal(t, DisplayFree, <-ticks)
}

func TestSchedulerRestartReplacesPriorRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := storeWithGame(7, "A01606010")

	ticks := make(chan string, 16)
	sched := NewScheduler(clock, store, func(gameID int64, text string) {
		ticks <- text
	})
	defer sched.Stop()

	sched.SetStartTimes(map[int64]time.Time{7: clock.Now().Add(time.Hour)})
	sched.Start(context.Background())
	clock.BlockUntil(1)

	// Restarting must cancel the first loop before the new one begins.
	sched.Start(context.Background())
	clock.BlockUntil(1)
	time.Sleep(20 * time.Millisecond)

	clock.Advance(time.Second)

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected a tick after restart")
	}

	select {
	case extra := <-ticks:
		t.Fatalf("two tick loops running, got extra tick %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := storeWithGame(1, "A01606010")

	ticks := make(chan string, 16)
	sched := NewScheduler(clock, store, func(gameID int64, text string) {
		ticks <- text
	})

	sched.SetStartTimes(map[int64]time.Time{1: clock.Now().Add(time.Hour)})
	sched.Start(context.Background())
	clock.BlockUntil(1)

	sched.Stop()
	time.Sleep(20 * time.Millisecond)
	clock.Advance(time.Second)

	select {
	case extra := <-ticks:
		t.Fatalf("tick after Stop: %q", extra)
	case <-time.After(100 * time.Millisecond):
	}
}
