package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciberteca/rental/go/internal/models"
)

func ptr(v int64) *int64 { return &v }

func TestRebuildFromAuthenticatedFetch(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{
			Game:    models.Game{ID: 1},
			Players: 2,
			PlaysData: []models.PlayData{
				{StudentID: "A01606010"},
				{StudentID: "A01606011"},
			},
		},
		{Game: models.Game{ID: 2}, Players: 0},
	})

	assert.Equal(t, 2, store.PlayersCount(1))
	assert.Equal(t, []string{"A01606010", "A01606011"}, store.Players(1))
	assert.Equal(t, 0, store.PlayersCount(2))
	assert.Empty(t, store.Players(2))
}

func TestRebuildFromPublicFetchKeepsCounts(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 3},
	})

	// No play data, but the server-supplied count survives.
	assert.Equal(t, 3, store.PlayersCount(1))
	assert.Empty(t, store.Players(1))
}

func TestApplyPlayersDiscardsStaleGeneration(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{{Game: models.Game{ID: 1}, Players: 1,
		PlaysData: []models.PlayData{{StudentID: "A01606010"}}}})

	gen := store.Generation()

	// A reset lands while a players fetch is in flight.
	store.Rebuild([]models.GameWithPlays{{Game: models.Game{ID: 1}, Players: 2,
		PlaysData: []models.PlayData{{StudentID: "A01606010"}, {StudentID: "A01606011"}}}})

	require.False(t, store.ApplyPlayers(gen, 1, []string{"A01606012"}))
	assert.Equal(t, 2, store.PlayersCount(1))
	assert.Equal(t, []string{"A01606010", "A01606011"}, store.Players(1))

	require.True(t, store.ApplyPlayers(store.Generation(), 1, []string{"A01606012"}))
	assert.Equal(t, 1, store.PlayersCount(1))
}

func TestApplyPlayersKeepsCountInSync(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{{Game: models.Game{ID: 1}}})

	require.True(t, store.ApplyPlayers(store.Generation(), 1, []string{"A01606010", "A01606011", "A01606012"}))
	assert.Equal(t, 3, store.PlayersCount(1))
	assert.Len(t, store.Players(1), 3)
}

func TestGameOf(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606010"}}},
		{Game: models.Game{ID: 2}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606011"}}},
	})

	id, ok := store.GameOf("A01606011")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	_, ok = store.GameOf("A09999999")
	assert.False(t, ok)
}

func TestMoveStudentKeepsCountsAndListsConsistent(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 2, PlaysData: []models.PlayData{
			{StudentID: "A01606010"}, {StudentID: "A01606011"}}},
		{Game: models.Game{ID: 2}, Players: 0},
	})

	store.MoveStudent("A01606010", ptr(1), 2)

	assert.Equal(t, 1, store.PlayersCount(1))
	assert.Equal(t, []string{"A01606011"}, store.Players(1))
	assert.Equal(t, 1, store.PlayersCount(2))
	assert.Equal(t, []string{"A01606010"}, store.Players(2))

	// Counts always match list lengths after point updates.
	for _, id := range store.GameIDs() {
		assert.Equal(t, len(store.Players(id)), store.PlayersCount(id))
	}
}

func TestMoveStudentAbsentFromSource(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606011"}}},
		{Game: models.Game{ID: 2}, Players: 0},
	})

	// Source list does not contain the student: only the append happens.
	store.MoveStudent("A01606010", ptr(1), 2)

	assert.Equal(t, 1, store.PlayersCount(1))
	assert.Equal(t, []string{"A01606010"}, store.Players(2))
}

func TestMoveStudentAlreadyInTarget(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 2}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606010"}}},
	})

	store.MoveStudent("A01606010", nil, 2)

	assert.Equal(t, 1, store.PlayersCount(2))
	assert.Equal(t, []string{"A01606010"}, store.Players(2))
}

func TestMoveStudentRepeatedSequences(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{
		{Game: models.Game{ID: 1}, Players: 1, PlaysData: []models.PlayData{{StudentID: "A01606010"}}},
		{Game: models.Game{ID: 2}, Players: 0},
		{Game: models.Game{ID: 3}, Players: 0},
	})

	moves := []struct {
		from *int64
		to   int64
	}{
		{ptr(1), 2},
		{ptr(2), 3},
		{ptr(3), 1},
		{ptr(1), 3},
	}
	for _, m := range moves {
		store.MoveStudent("A01606010", m.from, m.to)
	}

	total := 0
	for _, id := range store.GameIDs() {
		assert.Equal(t, len(store.Players(id)), store.PlayersCount(id))
		total += store.PlayersCount(id)
	}
	assert.Equal(t, 1, total)

	id, ok := store.GameOf("A01606010")
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
}

func TestAdjustCountFloorsAtZero(t *testing.T) {
	store := NewStore()
	store.Rebuild([]models.GameWithPlays{{Game: models.Game{ID: 1}, Players: 1}})

	store.AdjustCount(1, -1)
	assert.Equal(t, 0, store.PlayersCount(1))

	store.AdjustCount(1, -1)
	assert.Equal(t, 0, store.PlayersCount(1))

	store.AdjustCount(1, 2)
	assert.Equal(t, 2, store.PlayersCount(1))

	// Unknown game is ignored.
	store.AdjustCount(99, 5)
	assert.Equal(t, 0, store.PlayersCount(99))
}
