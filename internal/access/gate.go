// Package access resolves a requested role against a presented pin before
// any session-scoped mutating action is allowed. The gate runs on the
// client side of the API: an unauthorized action is rejected locally and
// never reaches the game service. The pin is a UX gate for a shared
// scoreboard, not a security boundary.
package access

import (
	"strings"

	"github.com/nachoupps/chessy/internal/model"
)

// Role is what a session is allowed to do in a game
type Role string

const (
	RoleWhite    Role = "white"
	RoleBlack    Role = "black"
	RoleObserver Role = "observer"
)

// Valid reports whether the role is known
func (r Role) Valid() bool {
	return r == RoleWhite || r == RoleBlack || r == RoleObserver
}

// Color returns the board side a playing role controls, or "" for observers
func (r Role) Color() model.Color {
	switch r {
	case RoleWhite:
		return model.ColorWhite
	case RoleBlack:
		return model.ColorBlack
	}
	return ""
}

// Action is a session-scoped mutating action
type Action string

const (
	ActionMove   Action = "move"
	ActionResign Action = "resign"
	ActionDraw   Action = "draw"
	ActionReset  Action = "reset"
	ActionUndo   Action = "undo"
)

// Session is a granted authorization bound to one game and one role.
// It is threaded explicitly into every mutating call.
type Session struct {
	GameID model.GameID
	Role   Role
}

// Grant resolves the requested role for the game against the presented
// pin. Observers are always granted and need no pin. For a playing role
// the named participant's stored pin must match; participants without a
// stored pin (pre-pin records), or participants no longer registered,
// accept model.DefaultPin instead.
func Grant(game *model.Game, participants []*model.Player, role Role, pin string) (*Session, error) {
	if !role.Valid() {
		return nil, model.ErrInvalidInput
	}

	if role == RoleObserver {
		return &Session{GameID: game.ID, Role: RoleObserver}, nil
	}

	name := game.WhitePlayer
	if role == RoleBlack {
		name = game.BlackPlayer
	}

	expected := model.DefaultPin
	for _, p := range participants {
		if strings.EqualFold(p.Name, name) {
			if p.Pin != "" {
				expected = p.Pin
			}
			break
		}
	}

	if pin != expected {
		return nil, model.ErrAccessDenied
	}
	return &Session{GameID: game.ID, Role: role}, nil
}

// CanAct reports whether the session may perform the action on the game.
// Observers may not mutate at all. Move submission additionally requires
// the session's side to hold the turn; resign, draw, reset and undo are
// open to either playing role regardless of turn.
func CanAct(sess *Session, game *model.Game, action Action, turn model.Color) error {
	if sess == nil || sess.GameID != game.ID {
		return model.ErrAccessDenied
	}
	if sess.Role == RoleObserver {
		return model.ErrAccessDenied
	}
	if action == ActionMove && sess.Role.Color() != turn {
		return model.ErrAccessDenied
	}
	return nil
}
