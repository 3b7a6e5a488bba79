// Package rules adapts a chess rules engine into the narrow oracle the
// rest of the system needs: move application, turn holder, terminal
// detection and legal-move enumeration over serialized positions. Chess
// rules themselves are never reimplemented here.
package rules

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/nachoupps/chessy/internal/model"
)

// MoveResult describes the position after a legal move was applied
type MoveResult struct {
	FEN   string
	SAN   string
	Check bool
	// Over is true when the move concluded the game; Winner then holds
	// the result (w, b or draw).
	Over   bool
	Winner model.Winner
}

// Engine is a stateless move-legality oracle over FEN-serialized positions
type Engine struct{}

// New creates an Engine
func New() *Engine {
	return &Engine{}
}

// ApplyMove validates and applies a from/to move (UCI coordinates, with an
// optional promotion piece) against the given position. Returns
// model.ErrIllegalMove when the move is not legal in that position.
func (e *Engine) ApplyMove(fen, from, to, promotion string) (*MoveResult, error) {
	game, err := load(fen)
	if err != nil {
		return nil, err
	}

	uci := strings.ToLower(strings.TrimSpace(from + to + promotion))
	pos := game.Position()

	move, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrIllegalMove, uci)
	}
	// PushNotationMove validates legality; Game.Move would apply blindly
	if err := game.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrIllegalMove, uci)
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, move)

	result := &MoveResult{
		FEN:   game.FEN(),
		SAN:   san,
		Check: strings.ContainsAny(san, "+#"),
	}

	switch game.Outcome() {
	case nchess.WhiteWon:
		result.Over = true
		result.Winner = model.WinnerWhite
	case nchess.BlackWon:
		result.Over = true
		result.Winner = model.WinnerBlack
	case nchess.Draw:
		result.Over = true
		result.Winner = model.WinnerDraw
	}

	return result, nil
}

// Turn returns the side to move in the given position
func (e *Engine) Turn(fen string) (model.Color, error) {
	game, err := load(fen)
	if err != nil {
		return "", err
	}
	if game.Position().Turn() == nchess.White {
		return model.ColorWhite, nil
	}
	return model.ColorBlack, nil
}

// LegalMoves enumerates the legal moves of the position in SAN
func (e *Engine) LegalMoves(fen string) ([]string, error) {
	game, err := load(fen)
	if err != nil {
		return nil, err
	}
	pos := game.Position()
	valid := game.ValidMoves()
	moves := make([]string, 0, len(valid))
	for i := range valid {
		moves = append(moves, nchess.AlgebraicNotation{}.Encode(pos, &valid[i]))
	}
	return moves, nil
}

// initialCounts is the per-side piece census of the starting position
var initialCounts = map[byte]int{'p': 8, 'n': 2, 'b': 2, 'r': 2, 'q': 1}

// CapturedPieces derives the material captured by each side from a FEN:
// capturedByWhite holds black piece letters no longer on the board,
// capturedByBlack the white ones. Promotion skews this count; the display
// tolerates that the same way the census is only a diff against the
// starting set.
func CapturedPieces(fen string) (capturedByWhite, capturedByBlack []string) {
	board := strings.SplitN(fen, " ", 2)[0]

	white := map[byte]int{}
	black := map[byte]int{}
	for i := 0; i < len(board); i++ {
		c := board[i]
		switch {
		case c >= 'a' && c <= 'z' && c != 'k':
			black[c]++
		case c >= 'A' && c <= 'Z' && c != 'K':
			white[c+('a'-'A')]++
		}
	}

	for _, piece := range []byte{'p', 'n', 'b', 'r', 'q'} {
		for i := 0; i < initialCounts[piece]-black[piece]; i++ {
			capturedByWhite = append(capturedByWhite, string(piece))
		}
		for i := 0; i < initialCounts[piece]-white[piece]; i++ {
			capturedByBlack = append(capturedByBlack, strings.ToUpper(string(piece)))
		}
	}
	return capturedByWhite, capturedByBlack
}

func load(fen string) (*nchess.Game, error) {
	if strings.TrimSpace(fen) == "" {
		return nchess.NewGame(), nil
	}
	option, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: bad position %q", model.ErrInvalidInput, fen)
	}
	return nchess.NewGame(option), nil
}
