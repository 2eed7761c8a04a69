package dashboard

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ciberteca/rental/go/internal/models"
)

// cardsTmpl mirrors the game card markup the admin panel renders into
// the cyberCards container. Authenticated renders include the expander
// with player rows; public renders stop at the counts and countdown.
const cardsTmpl = `{{range .}}<div class="cyber__card [ is-collapsed ]">
<div id="{{.Name}}" class="cyber__card__inner [ js-expander ]">
<span>{{.DisplayName}}</span><br>
<div id="cyber__game__players__count__{{.ID}}">{{if gt .Players 0}}<span>{{.Players}} jugadores</span><br>{{end}}</div>
<img class="cyber__image" src="/static/{{.FileRoute}}" alt="{{.DisplayName}}">
<div class="remaining__time"><p id="cyber__countdown__{{.ID}}">No data</p></div>
</div>
{{if .Authenticated}}<div class="rounded cyber__card__expander">
<ul id="cyber__student__list__{{.ID}}" class="container__dropzone">
{{range .Rows}}{{template "studentRow" .}}{{end}}</ul>
</div>{{end}}
</div>
{{end}}`

const studentRowTmpl = `{{define "studentRow"}}<div id="{{.StudentID}}" data-gameId="{{.GameID}}" class="student draggable" draggable="true">
<li>{{.StudentID}}</li>
<form class="end-play-form" id="end-play-form-{{.StudentID}}">
<input type="hidden" name="student_id" value="{{.StudentID}}">
<input type="hidden" name="game_id" value="{{.GameID}}">
<button type="submit" class="btn btn-success">End Play</button>
</form>
<button type="button" class="btn btn-primary" data-bs-toggle="modal" data-bs-target="#modalSanciones" data-bs-matricula="{{.StudentID}}">Sancionar</button>
</div>
{{end}}`

type studentRow struct {
	StudentID string
	GameID    int64
}

type card struct {
	ID            int64
	Name          string
	DisplayName   string
	FileRoute     string
	Players       int
	Authenticated bool
	Rows          []studentRow
}

// Renderer turns domain records into HTML fragments for the dashboard.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the card templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("cards").Parse(cardsTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse cards template: %w", err)
	}
	if _, err := tmpl.Parse(studentRowTmpl); err != nil {
		return nil, fmt.Errorf("parse student row template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Cards renders the full card grid.
func (r *Renderer) Cards(games []models.GameWithPlays, authenticated bool) (string, error) {
	cards := make([]card, 0, len(games))
	for _, g := range games {
		c := card{
			ID:            g.ID,
			Name:          g.Name,
			DisplayName:   g.DisplayName,
			FileRoute:     g.FileRoute,
			Players:       g.Players,
			Authenticated: authenticated,
		}
		if authenticated {
			for _, p := range g.PlaysData {
				c.Rows = append(c.Rows, studentRow{StudentID: p.StudentID, GameID: g.ID})
			}
		}
		cards = append(cards, c)
	}

	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, "cards", cards); err != nil {
		return "", fmt.Errorf("render cards: %w", err)
	}
	return b.String(), nil
}

// StudentList renders the player rows for one game's dropzone list.
func (r *Renderer) StudentList(gameID int64, plays []models.Play) (string, error) {
	var b strings.Builder
	for _, p := range plays {
		if err := r.tmpl.ExecuteTemplate(&b, "studentRow", studentRow{StudentID: p.StudentID, GameID: gameID}); err != nil {
			return "", fmt.Errorf("render student row: %w", err)
		}
	}
	return b.String(), nil
}

// PlayersCount renders the count badge for one game.
func (r *Renderer) PlayersCount(count int) string {
	if count <= 0 {
		return ""
	}
	return fmt.Sprintf("<span>%d jugadores</span><br>", count)
}

// ApplyFunc replaces the contents of the container selected by selector.
type ApplyFunc func(selector, html string) error

// HTMLView adapts the renderer to the View interface, pushing fragments
// into whatever holds the DOM (or its server-side stand-in).
type HTMLView struct {
	renderer      *Renderer
	authenticated bool
	apply         ApplyFunc
}

// NewHTMLView builds a view over the given apply sink.
func NewHTMLView(renderer *Renderer, authenticated bool, apply ApplyFunc) *HTMLView {
	return &HTMLView{renderer: renderer, authenticated: authenticated, apply: apply}
}

// RenderAll redraws the whole card grid.
func (v *HTMLView) RenderAll(games []models.GameWithPlays) error {
	html, err := v.renderer.Cards(games, v.authenticated)
	if err != nil {
		return err
	}
	return v.apply("#cyberCards", html)
}

// UpdateGame redraws one game's player list and count badge in place, so
// an expanded card does not collapse under the user.
func (v *HTMLView) UpdateGame(gameID int64, plays []models.Play) error {
	list, err := v.renderer.StudentList(gameID, plays)
	if err != nil {
		return err
	}
	if err := v.apply(fmt.Sprintf("#cyber__student__list__%d", gameID), list); err != nil {
		return err
	}
	return v.apply(
		fmt.Sprintf("#cyber__game__players__count__%d", gameID),
		v.renderer.PlayersCount(len(plays)),
	)
}
