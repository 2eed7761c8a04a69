package dashboard

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/models"
)

type fakeSource struct {
	games      []models.GameWithPlays
	starts     []models.GameStartTime
	players    map[int64][]models.Play
	gamesCalls int
	// onFetchPlayers runs before FetchPlayers returns, to simulate a
	// reset landing while the fetch is in flight.
	onFetchPlayers func()
}

func (f *fakeSource) FetchGames(ctx context.Context) ([]models.GameWithPlays, error) {
	f.gamesCalls++
	return f.games, nil
}

func (f *fakeSource) FetchStartTimes(ctx context.Context) ([]models.GameStartTime, error) {
	return f.starts, nil
}

func (f *fakeSource) FetchPlayers(ctx context.Context, gameID int64) ([]models.Play, error) {
	if f.onFetchPlayers != nil {
		f.onFetchPlayers()
	}
	return f.players[gameID], nil
}

type fakeChannel struct {
	sent []events.UpdateMessage
}

func (f *fakeChannel) Send(msg events.UpdateMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

type fakeView struct {
	renderAllCalls int
	updatedGames   []int64
}

func (f *fakeView) RenderAll(games []models.GameWithPlays) error {
	f.renderAllCalls++
	return nil
}

func (f *fakeView) UpdateGame(gameID int64, players []models.Play) error {
	f.updatedGames = append(f.updatedGames, gameID)
	return nil
}

func newTestSyncer(identity string, source *fakeSource) (*Syncer, *fakeChannel, *fakeView, *Store) {
	store := NewStore()
	sched := NewScheduler(clockwork.NewFakeClock(), store, func(int64, string) {})
	channel := &fakeChannel{}
	view := &fakeView{}
	syncer := NewSyncer(identity, source, channel, view, store, sched, zerolog.Nop())
	return syncer, channel, view, store
}

func TestHandleRemoteDropsOwnEcho(t *testing.T) {
	source := &fakeSource{}
	syncer, _, view, _ := newTestSyncer("admin1", source)

	msg := events.UpdateMessage{Message: events.MsgGamesUpdated, Sender: "admin1"}
	require.NoError(t, syncer.HandleRemote(context.Background(), msg))

	assert.Zero(t, source.gamesCalls)
	assert.Zero(t, view.renderAllCalls)
}

func TestHandleRemoteGamesUpdatedResets(t *testing.T) {
	source := &fakeSource{
		games: []models.GameWithPlays{{Game: models.Game{ID: 1}, Players: 1,
			PlaysData: []models.PlayData{{StudentID: "A01606010"}}}},
	}
	syncer, _, view, store := newTestSyncer("admin1", source)

	msg := events.UpdateMessage{Message: events.MsgGamesUpdated, Sender: "admin2"}
	require.NoError(t, syncer.HandleRemote(context.Background(), msg))

	assert.Equal(t, 1, source.gamesCalls)
	assert.Equal(t, 1, view.renderAllCalls)
	assert.Equal(t, 1, store.PlayersCount(1))
}

func TestHandleRemotePlaysUpdatedRefreshesOneGame(t *testing.T) {
	source := &fakeSource{
		games: []models.GameWithPlays{{Game: models.Game{ID: 5}}},
		players: map[int64][]models.Play{
			5: {{StudentID: "A01606010", GameID: 5}, {StudentID: "A01606011", GameID: 5}},
		},
	}
	syncer, _, view, store := newTestSyncer("admin1", source)
	require.NoError(t, syncer.Reset(context.Background()))

	msg := events.UpdateMessage{Message: events.MsgPlaysUpdated, Info: ptr(5), Sender: "admin2"}
	require.NoError(t, syncer.HandleRemote(context.Background(), msg))

	assert.Equal(t, []int64{5}, view.updatedGames)
	assert.Equal(t, 2, store.PlayersCount(5))
	assert.Equal(t, []string{"A01606010", "A01606011"}, store.Players(5))
}

func TestRefreshGameDiscardsStaleFetch(t *testing.T) {
	source := &fakeSource{
		games: []models.GameWithPlays{{Game: models.Game{ID: 5}, Players: 1,
			PlaysData: []models.PlayData{{StudentID: "A01606010"}}}},
		players: map[int64][]models.Play{
			5: {{StudentID: "A01606099", GameID: 5}},
		},
	}
	syncer, _, view, store := newTestSyncer("admin1", source)
	require.NoError(t, syncer.Reset(context.Background()))

	// A reset lands while the players fetch is in flight; its response
	// is stale by the time it arrives.
	source.onFetchPlayers = func() {
		store.Rebuild(source.games)
	}

	msg := events.UpdateMessage{Message: events.MsgPlaysUpdated, Info: ptr(5), Sender: "admin2"}
	require.NoError(t, syncer.HandleRemote(context.Background(), msg))

	assert.Empty(t, view.updatedGames)
	assert.Equal(t, []string{"A01606010"}, store.Players(5))
}

func TestHandleRemoteStudentsUpdatedIsNoOp(t *testing.T) {
	source := &fakeSource{}
	syncer, _, view, _ := newTestSyncer("admin1", source)

	msg := events.UpdateMessage{Message: events.MsgStudentsUpdated, Sender: "admin2"}
	require.NoError(t, syncer.HandleRemote(context.Background(), msg))

	assert.Zero(t, source.gamesCalls)
	assert.Zero(t, view.renderAllCalls)
}

func TestBroadcastStampsIdentity(t *testing.T) {
	syncer, channel, _, _ := newTestSyncer("admin1", &fakeSource{})

	require.NoError(t, syncer.Broadcast(events.MsgPlaysUpdated, ptr(3)))

	require.Len(t, channel.sent, 1)
	assert.Equal(t, "admin1", channel.sent[0].Sender)
	assert.Equal(t, events.MsgPlaysUpdated, channel.sent[0].Message)
	require.NotNil(t, channel.sent[0].Info)
	assert.Equal(t, int64(3), *channel.sent[0].Info)
}

func TestListenStopsOnClosedChannel(t *testing.T) {
	syncer, _, _, _ := newTestSyncer("admin1", &fakeSource{})

	msgs := make(chan events.UpdateMessage)
	close(msgs)

	done := make(chan struct{})
	go func() {
		syncer.Listen(context.Background(), msgs)
		close(done)
	}()

	<-done
}
