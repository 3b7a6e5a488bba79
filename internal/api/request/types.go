package request

// RegisterPlayerRequest is the request body for registering a player
type RegisterPlayerRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin,omitempty"`
}

// UpdatePlayerRequest is the request body for adjusting a player's record.
// Outcome is one of "win", "loss" or "draw"; Delta is the signed rating
// change to apply alongside the counter bump.
type UpdatePlayerRequest struct {
	Outcome string `json:"outcome"`
	Delta   int    `json:"delta"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name        string `json:"name"`
	WhitePlayer string `json:"white_player"`
	BlackPlayer string `json:"black_player"`
	Mode        string `json:"mode,omitempty"`
}

// UpdateGameRequest is the request body for a partial game update.
// nil fields are left untouched.
type UpdateGameRequest struct {
	Name     *string `json:"name,omitempty"`
	FEN      *string `json:"fen,omitempty"`
	Winner   *string `json:"winner,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
	UndoUsed *bool   `json:"undo_used,omitempty"`
}

// ClearRequest is the request body for wiping a collection
type ClearRequest struct {
	Pin string `json:"pin"`
}
