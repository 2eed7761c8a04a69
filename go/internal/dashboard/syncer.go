package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ciberteca/rental/go/internal/events"
	"github.com/ciberteca/rental/go/internal/models"
)

// DataSource is the remote data gateway the syncer reconciles against.
// Peer-asserted deltas are never trusted; every update triggers an
// authoritative re-fetch of the affected scope.
type DataSource interface {
	FetchGames(ctx context.Context) ([]models.GameWithPlays, error)
	FetchStartTimes(ctx context.Context) ([]models.GameStartTime, error)
	FetchPlayers(ctx context.Context, gameID int64) ([]models.Play, error)
}

// Channel sends update notifications to the other dashboard clients.
type Channel interface {
	Send(msg events.UpdateMessage) error
}

// View receives re-render requests. Implementations draw the game cards.
type View interface {
	RenderAll(games []models.GameWithPlays) error
	UpdateGame(gameID int64, players []models.Play) error
}

// Syncer reconciles the occupancy store, the countdown scheduler, and the
// view with updates arriving over the realtime channel. Local mutations
// are applied optimistically by their handlers first and then broadcast;
// the syncer's job is everything that arrives from other clients.
type Syncer struct {
	identity string
	source   DataSource
	channel  Channel
	view     View
	store    *Store
	sched    *Scheduler
	logger   zerolog.Logger
}

// NewSyncer wires up a syncer for the given local identity.
func NewSyncer(identity string, source DataSource, channel Channel, view View, store *Store, sched *Scheduler, logger zerolog.Logger) *Syncer {
	return &Syncer{
		identity: identity,
		source:   source,
		channel:  channel,
		view:     view,
		store:    store,
		sched:    sched,
		logger:   logger,
	}
}

// Store exposes the occupancy store for local mutation handlers.
func (s *Syncer) Store() *Store {
	return s.store
}

// Reset performs a full dashboard reset: re-fetch the game list, rebuild
// the store, restart the countdown scheduler, and redraw everything.
func (s *Syncer) Reset(ctx context.Context) error {
	games, err := s.source.FetchGames(ctx)
	if err != nil {
		return err
	}
	s.store.Rebuild(games)

	if err := s.refreshStartTimes(ctx); err != nil {
		return err
	}
	s.sched.Start(ctx)

	if err := s.view.RenderAll(games); err != nil {
		return err
	}

	s.logger.Info().Int("games", len(games)).Msg("dashboard reset")
	return nil
}

// Listen dispatches channel messages until the context ends or the
// message channel closes. A closed channel is terminal for this tab's
// realtime sync; it is logged, not retried.
func (s *Syncer) Listen(ctx context.Context, msgs <-chan events.UpdateMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				s.logger.Error().Msg("updates channel closed unexpectedly")
				return
			}
			if err := s.HandleRemote(ctx, msg); err != nil {
				s.logger.Error().Err(err).Str("message", msg.Message).Msg("failed to apply remote update")
			}
		}
	}
}

// HandleRemote applies one update from another client. Messages stamped
// with the local identity are echoes of mutations this client already
// applied; re-applying them would double-count, so they are dropped.
func (s *Syncer) HandleRemote(ctx context.Context, msg events.UpdateMessage) error {
	if msg.Sender == s.identity {
		return nil
	}

	switch msg.Message {
	case events.MsgGamesUpdated:
		return s.Reset(ctx)
	case events.MsgPlaysUpdated:
		if msg.Info == nil {
			return s.refreshStartTimes(ctx)
		}
		return s.refreshGame(ctx, *msg.Info)
	case events.MsgStudentsUpdated:
		// Student metadata does not affect occupancy or countdowns.
		s.logger.Debug().Str("sender", msg.Sender).Msg("students updated elsewhere")
		return nil
	default:
		s.logger.Warn().Str("message", msg.Message).Msg("ignoring unknown update message")
		return nil
	}
}

// Broadcast notifies the other clients about a local mutation, stamping
// the local identity so peers can suppress the echo.
func (s *Syncer) Broadcast(message string, info *int64) error {
	return s.channel.Send(events.UpdateMessage{
		Message: message,
		Info:    info,
		Sender:  s.identity,
	})
}

// refreshGame re-fetches one game's player list, patches the store and
// the view, then refreshes the countdown deadlines since a play start may
// have introduced a new start time. The generation captured before the
// fetch keeps a stale response from clobbering a fresh rebuild.
func (s *Syncer) refreshGame(ctx context.Context, gameID int64) error {
	gen := s.store.Generation()

	plays, err := s.source.FetchPlayers(ctx, gameID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(plays))
	for _, p := range plays {
		ids = append(ids, p.StudentID)
	}

	if !s.store.ApplyPlayers(gen, gameID, ids) {
		s.logger.Debug().Int64("game_id", gameID).Msg("discarded stale players fetch")
		return nil
	}

	if err := s.view.UpdateGame(gameID, plays); err != nil {
		return err
	}
	return s.refreshStartTimes(ctx)
}

func (s *Syncer) refreshStartTimes(ctx context.Context) error {
	starts, err := s.source.FetchStartTimes(ctx)
	if err != nil {
		return err
	}

	deadlines := make(map[int64]time.Time, len(starts))
	for _, st := range starts {
		deadlines[st.GameID] = st.Time
	}
	s.sched.SetStartTimes(deadlines)
	return nil
}
