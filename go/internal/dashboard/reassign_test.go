package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/models"
)

type fakeMover struct {
	calls []int64
	err   error
}

func (f *fakeMover) ChangeStudentGame(ctx context.Context, studentID string, toGameID int64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, toGameID)
	return nil
}

func acceptAll(ctx context.Context, move Move) (bool, error) { return true, nil }
func rejectAll(ctx context.Context, move Move) (bool, error) { return false, nil }

func newTestReassigner(confirm ConfirmFunc, mover *fakeMover) (*Reassigner, *Store, *fakeChannel) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606010"}}},
		{Game: models.Game{ID: 2}, Players: 0},
	})

	channel := &fakeChannel{}
	sched := NewScheduler(clockwork.NewFakeClock(), store, func(int64, string) {})
	syncer := NewSyncer("admin1", &fakeSource{}, channel, &fakeView{}, store, sched, zerolog.Nop())

	return NewReassigner(store, mover, confirm, syncer, nil), store, channel
}

func TestDropSameGameIsNoOp(t *testing.T) {
	mover := &fakeMover{}
	r, store, channel := newTestReassigner(acceptAll, mover)

	require.NoError(t, r.Drop(context.Background(), "A01606010", 1))

	assert.Empty(t, mover.calls)
	assert.Empty(t, channel.sent)
	assert.Equal(t, 1, store.PlayersCount(1))
}

func TestDropRejectedLeavesStoreUntouched(t *testing.T) {
	mover := &fakeMover{}
	r, store, channel := newTestReassigner(rejectAll, mover)

	err := r.Drop(context.Background(), "A01606010", 2)
	require.ErrorIs(t, err, ErrMoveRejected)

	assert.Empty(t, mover.calls)
	assert.Empty(t, channel.sent)
	assert.Equal(t, 1, store.PlayersCount(1))
	assert.Equal(t, 0, store.PlayersCount(2))
}

func TestDropConfirmedMovesAtomically(t *testing.T) {
	mover := &fakeMover{}
	r, store, channel := newTestReassigner(acceptAll, mover)

	require.NoError(t, r.Drop(context.Background(), "A01606010", 2))

	assert.Equal(t, []int64{2}, mover.calls)
	assert.Equal(t, 0, store.PlayersCount(1))
	assert.Equal(t, 1, store.PlayersCount(2))
	assert.Equal(t, []string{"A01606010"}, store.Players(2))

	// One broadcast per affected game, stamped with the local identity.
	require.Len(t, channel.sent, 2)
	for _, msg := range channel.sent {
		assert.Equal(t, events.MsgPlaysUpdated, msg.Message)
		assert.Equal(t, "admin1", msg.Sender)
	}
	assert.Equal(t, int64(1), *channel.sent[0].Info)
	assert.Equal(t, int64(2), *channel.sent[1].Info)
}

func TestDropBackendFailureLeavesStoreUntouched(t *testing.T) {
	mover := &fakeMover{err: errors.New("boom")}
	r, store, channel := newTestReassigner(acceptAll, mover)

	err := r.Drop(context.Background(), "A01606010", 2)
	require.Error(t, err)

	assert.Empty(t, channel.sent)
	assert.Equal(t, 1, store.PlayersCount(1))
	assert.Equal(t, 0, store.PlayersCount(2))
}

func TestDropUnknownStudentStillReassigns(t *testing.T) {
	mover := &fakeMover{}
	r, store, channel := newTestReassigner(acceptAll, mover)

	// Not in any list (public view), backend still owns the truth.
	require.NoError(t, r.Drop(context.Background(), "A01606099", 2))

	assert.Equal(t, []int64{2}, mover.calls)
	assert.Equal(t, []string{"A01606099"}, store.Players(2))
	require.Len(t, channel.sent, 1)
	assert.Equal(t, int64(2), *channel.sent[0].Info)
}

func TestInsertIndex(t *testing.T) {
	tests := []struct {
		name      string
		midpoints []float64
		y         float64
		want      int
	}{
		{"above all siblings", []float64{100, 200, 300}, 50, 0},
		{"between first and second", []float64{100, 200, 300}, 150, 1},
		{"below all siblings", []float64{100, 200, 300}, 400, 3},
		{"exactly on a midpoint goes after", []float64{100, 200}, 100, 1},
		{"no siblings", nil, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertIndex(tt.midpoints, tt.y))
		})
	}
}
