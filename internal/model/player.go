package model

// PlayerID uniquely identifies a registered player across the system
type PlayerID string

// Player is a registered participant with rating bookkeeping
type Player struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	Rating int      `json:"rating"`
	Wins   int      `json:"wins"`
	Losses int      `json:"losses"`
	Draws  int      `json:"draws"`
	// Pin is the 4-digit access code presented to the access gate.
	// Empty for records created before pins existed; those accept DefaultPin.
	Pin string `json:"pin,omitempty"`
}

// Outcome is a per-player game result used for rating adjustment
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Valid reports whether the outcome is one of win/loss/draw
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss || o == OutcomeDraw
}

// Rating constants. New players start at InitialRating; concluded ranked
// games apply the deltas below exactly once per participant.
const (
	InitialRating   = 10
	WinRatingDelta  = 10
	LossRatingDelta = -5
	DrawRatingDelta = 2
)

// DefaultPin is accepted for players registered before pins existed.
// It is also the administrative pin gating bulk deletion.
const (
	DefaultPin = "0000"
	AdminPin   = "0000"
)
