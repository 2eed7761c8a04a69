package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciberteca/rental/go/internal/models"
)

func testGames() []models.GameWithPlays {
	return []models.GameWithPlays{
		{
			Game:    models.Game{ID: 1, Name: "smash", DisplayName: "Smash Bros", FileRoute: "images/smash.png"},
			Players: 2,
			PlaysData: []models.PlayData{
				{StudentID: "A01606010"},
				{StudentID: "A01606011"},
			},
		},
		{
			Game: models.Game{ID: 2, Name: "fifa", DisplayName: "FIFA 23", FileRoute: "images/fifa.png"},
		},
	}
}

func TestCardsAuthenticated(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Cards(testGames(), true)
	require.NoError(t, err)

	assert.Contains(t, html, `id="cyber__countdown__1"`)
	assert.Contains(t, html, `id="cyber__game__players__count__1"`)
	assert.Contains(t, html, "2 jugadores")
	assert.Contains(t, html, `id="cyber__student__list__1"`)
	assert.Contains(t, html, `id="A01606010"`)
	assert.Contains(t, html, `data-gameId="1"`)
	assert.Contains(t, html, "Sancionar")
	assert.Contains(t, html, `src="/static/images/smash.png"`)

	// Empty game: no count badge, but the countdown target exists.
	assert.Contains(t, html, `id="cyber__countdown__2"`)
	assert.NotContains(t, html, "0 jugadores")
}

func TestCardsPublicHidesPlayers(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Cards(testGames(), false)
	require.NoError(t, err)

	assert.Contains(t, html, "2 jugadores")
	assert.NotContains(t, html, "cyber__student__list__")
	assert.NotContains(t, html, "A01606010")
	assert.NotContains(t, html, "Sancionar")
}

func TestStudentList(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.StudentList(7, []models.Play{
		{StudentID: "A01606010", GameID: 7},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `id="A01606010"`)
	assert.Contains(t, html, `data-gameId="7"`)
	assert.Contains(t, html, `id="end-play-form-A01606010"`)
}

func TestPlayersCount(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	assert.Equal(t, "", r.PlayersCount(0))
	assert.Equal(t, "<span>3 jugadores</span><br>", r.PlayersCount(3))
}

func TestCardsEscapesContent(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	games := []models.GameWithPlays{{
		Game: models.Game{ID: 1, Name: "x", DisplayName: `<script>alert(1)</script>`},
	}}
	html, err := r.Cards(games, false)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}

func TestHTMLViewUpdateGame(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	applied := map[string]string{}
	view := NewHTMLView(r, true, func(selector, html string) error {
		applied[selector] = html
		return nil
	})

	require.NoError(t, view.UpdateGame(4, []models.Play{
		{StudentID: "A01606010", GameID: 4},
		{StudentID: "A01606011", GameID: 4},
	}))

	assert.Contains(t, applied["#cyber__student__list__4"], "A01606011")
	assert.Equal(t, "<span>2 jugadores</span><br>", applied["#cyber__game__players__count__4"])
}
