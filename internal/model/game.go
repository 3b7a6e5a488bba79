package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Color identifies a side of the board
type Color string

const (
	ColorWhite Color = "w"
	ColorBlack Color = "b"
)

// Winner records how a game concluded
type Winner string

const (
	WinnerWhite Winner = "w"
	WinnerBlack Winner = "b"
	WinnerDraw  Winner = "draw"
)

// Valid reports whether the winner value is one of w/b/draw
func (w Winner) Valid() bool {
	return w == WinnerWhite || w == WinnerBlack || w == WinnerDraw
}

// Mode selects whether a game affects ratings
type Mode string

const (
	// ModeRanked applies rating adjustment at conclusion. An empty mode
	// (records created before modes existed) is treated as ranked.
	ModeRanked     Mode = "ranked"
	ModeTraining   Mode = "training"
	ModeSimulation Mode = "simulation"
)

// Valid reports whether the mode is known (empty counts as ranked)
func (m Mode) Valid() bool {
	return m == "" || m == ModeRanked || m == ModeTraining || m == ModeSimulation
}

// Ranked reports whether conclusion of a game in this mode adjusts ratings
func (m Mode) Ranked() bool {
	return m == "" || m == ModeRanked
}

// StartingFEN is the standard chess initial position
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Game is a persisted match between two registered players.
// Players are referenced by name, fixed at creation; they are not
// re-validated afterwards, so deleting a player does not invalidate
// their past games.
type Game struct {
	ID          GameID    `json:"id"`
	Name        string    `json:"name"`
	WhitePlayer string    `json:"white_player"`
	BlackPlayer string    `json:"black_player"`
	FEN         string    `json:"fen"`
	LastUpdated time.Time `json:"last_updated"`
	Winner      Winner    `json:"winner,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	UndoUsed    bool      `json:"undo_used"`
	Mode        Mode      `json:"mode,omitempty"`
}

// Concluded reports whether the game's result has been set
func (g *Game) Concluded() bool {
	return g.Winner != ""
}

// WinnerName resolves the concluded winner to a player name, or "" for a
// draw or an ongoing game.
func (g *Game) WinnerName() string {
	switch g.Winner {
	case WinnerWhite:
		return g.WhitePlayer
	case WinnerBlack:
		return g.BlackPlayer
	}
	return ""
}

// GameUpdate is a partial, shallow merge applied to a stored game. Nil
// fields are left untouched. It is the single mutation primitive: move
// application supplies FEN, conclusion supplies Winner, archival supplies
// Archived, rollback supplies FEN plus UndoUsed.
type GameUpdate struct {
	Name     *string `json:"name,omitempty"`
	FEN      *string `json:"fen,omitempty"`
	Winner   *Winner `json:"winner,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
	UndoUsed *bool   `json:"undo_used,omitempty"`
}

// Empty reports whether the update carries no fields
func (u *GameUpdate) Empty() bool {
	return u.Name == nil && u.FEN == nil && u.Winner == nil && u.Archived == nil && u.UndoUsed == nil
}
