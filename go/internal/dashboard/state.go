package dashboard

import (
	"sync"

	"github.com/ciberteca/rental/go/internal/models"
)

// Occupancy tracks who is currently playing a game. PlayersCount stays
// equal to len(Players) under point updates; after a rebuild from an
// unauthenticated fetch the player list is empty while the count still
// reflects the server-supplied total.
type Occupancy struct {
	PlayersCount int
	Players      []string
}

// Store is the in-memory game occupancy mapping the dashboard renders
// from. It is the single owner of occupancy state: rebuilt wholesale on a
// dashboard reset, patched in place on point events.
//
// The generation counter guards against stale in-flight fetches racing a
// reset: a response fetched under an older generation is discarded.
type Store struct {
	mu         sync.RWMutex
	games      map[int64]*Occupancy
	generation uint64
}

// NewStore creates an empty occupancy store.
func NewStore() *Store {
	return &Store{
		games: make(map[int64]*Occupancy),
	}
}

// Rebuild replaces the entire mapping from a fresh games fetch and bumps
// the generation. Games without play data (unauthenticated fetch) get an
// empty player list and keep the server-supplied count.
func (s *Store) Rebuild(games []models.GameWithPlays) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.games = make(map[int64]*Occupancy, len(games))
	for _, g := range games {
		occ := &Occupancy{PlayersCount: g.Players}
		for _, p := range g.PlaysData {
			occ.Players = append(occ.Players, p.StudentID)
		}
		s.games[g.ID] = occ
	}
}

// Generation returns the current rebuild generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ApplyPlayers replaces one game's player list, but only if the store has
// not been rebuilt since gen was captured. Returns false when discarded.
func (s *Store) ApplyPlayers(gen uint64, gameID int64, players []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	occ, ok := s.games[gameID]
	if !ok {
		return false
	}
	occ.Players = append([]string(nil), players...)
	occ.PlayersCount = len(players)
	return true
}

// GameOf returns the game the student is currently listed under. Linear
// scan, first match; a student appearing in more than one list is a bug
// upstream and not handled here.
func (s *Store) GameOf(studentID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, occ := range s.games {
		for _, p := range occ.Players {
			if p == studentID {
				return id, true
			}
		}
	}
	return 0, false
}

// MoveStudent removes the student from the source game's list (no-op if
// absent) and appends them to the target game's list (no-op if already
// present). Counts follow the list edits, floored at zero.
func (s *Store) MoveStudent(studentID string, from *int64, to int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from != nil {
		if occ, ok := s.games[*from]; ok {
			for i, p := range occ.Players {
				if p == studentID {
					occ.Players = append(occ.Players[:i], occ.Players[i+1:]...)
					if occ.PlayersCount > 0 {
						occ.PlayersCount--
					}
					break
				}
			}
		}
	}

	if occ, ok := s.games[to]; ok {
		for _, p := range occ.Players {
			if p == studentID {
				return
			}
		}
		occ.Players = append(occ.Players, studentID)
		occ.PlayersCount++
	}
}

// AdjustCount nudges a game's player count by delta, floored at zero.
// Used on play-end when a full list invalidation is unnecessary.
func (s *Store) AdjustCount(gameID int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	occ, ok := s.games[gameID]
	if !ok {
		return
	}
	occ.PlayersCount += delta
	if occ.PlayersCount < 0 {
		occ.PlayersCount = 0
	}
}

// PlayersCount returns the current count for a game, zero if unknown.
func (s *Store) PlayersCount(gameID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if occ, ok := s.games[gameID]; ok {
		return occ.PlayersCount
	}
	return 0
}

// Players returns a copy of a game's player list.
func (s *Store) Players(gameID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	occ, ok := s.games[gameID]
	if !ok {
		return nil
	}
	return append([]string(nil), occ.Players...)
}

// GameIDs returns the ids of all tracked games.
func (s *Store) GameIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}
