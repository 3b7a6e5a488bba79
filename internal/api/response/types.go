package response

import (
	"time"

	"github.com/nachoupps/chessy/internal/model"
)

// Player represents a player in API responses. The pin is included
// because access checks are evaluated client side.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Pin    string `json:"pin,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:     string(p.ID),
		Name:   p.Name,
		Rating: p.Rating,
		Wins:   p.Wins,
		Losses: p.Losses,
		Draws:  p.Draws,
		Pin:    p.Pin,
	}
}

// PlayersFromModel converts a slice of model players
func PlayersFromModel(players []*model.Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = PlayerFromModel(p)
	}
	return out
}

// Game represents a game in API responses
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WhitePlayer string    `json:"white_player"`
	BlackPlayer string    `json:"black_player"`
	FEN         string    `json:"fen"`
	LastUpdated time.Time `json:"last_updated"`
	Winner      *string   `json:"winner"`
	Archived    bool      `json:"archived"`
	UndoUsed    bool      `json:"undo_used"`
	Mode        string    `json:"mode"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		WhitePlayer: g.WhitePlayer,
		BlackPlayer: g.BlackPlayer,
		FEN:         g.FEN,
		LastUpdated: g.LastUpdated,
		Winner:      winner,
		Archived:    g.Archived,
		UndoUsed:    g.UndoUsed,
		Mode:        string(g.Mode),
	}
}

// GamesFromModel converts a slice of model games
func GamesFromModel(games []*model.Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}
