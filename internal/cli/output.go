package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nachoupps/chessy/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Player:
		o.printPlayer(v)
	case []*model.Player:
		o.printPlayers(v)
	case *model.Game:
		o.printGame(v)
	case []*model.Game:
		o.printGames(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p *model.Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Rating: %d\n", p.Rating)
	fmt.Printf("Record: %dW / %dL / %dD\n", p.Wins, p.Losses, p.Draws)
}

func (o *Output) printPlayers(players []*model.Player) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		fmt.Printf("  - %s  rating %d  (%dW/%dL/%dD)\n", p.Name, p.Rating, p.Wins, p.Losses, p.Draws)
	}
}

func (o *Output) printGame(g *model.Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("White: %s\n", g.WhitePlayer)
	fmt.Printf("Black: %s\n", g.BlackPlayer)
	if g.Mode != "" && g.Mode != model.ModeRanked {
		fmt.Printf("Mode: %s\n", g.Mode)
	}
	if g.Concluded() {
		fmt.Printf("Result: %s\n", describeResult(g))
	}
	if g.Archived {
		fmt.Println("Archived: yes")
	}
	fmt.Println()
	printBoardFEN(g.FEN)
}

func (o *Output) printGames(games []*model.Game) {
	fmt.Printf("Games (%d):\n", len(games))
	for _, g := range games {
		status := "in progress"
		if g.Concluded() {
			status = describeResult(g)
		}
		if g.Archived {
			status += " [archived]"
		}
		fmt.Printf("  - %s: %s vs %s - %s\n", g.Name, g.WhitePlayer, g.BlackPlayer, status)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func describeResult(g *model.Game) string {
	switch g.Winner {
	case model.WinnerWhite:
		return fmt.Sprintf("%s won", g.WhitePlayer)
	case model.WinnerBlack:
		return fmt.Sprintf("%s won", g.BlackPlayer)
	case model.WinnerDraw:
		return "draw"
	}
	return "in progress"
}

// printBoardFEN renders the piece placement field of a FEN position
func printBoardFEN(fen string) {
	placement := strings.Fields(fen)
	if len(placement) == 0 {
		return
	}
	ranks := strings.Split(placement[0], "/")
	if len(ranks) != 8 {
		return
	}

	fmt.Println("   +------------------------+")
	for i, rank := range ranks {
		fmt.Printf(" %d |", 8-i)
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				for n := 0; n < int(c-'0'); n++ {
					fmt.Print(" . ")
				}
			} else {
				fmt.Printf(" %c ", c)
			}
		}
		fmt.Println("|")
	}
	fmt.Println("   +------------------------+")
	fmt.Println("     a  b  c  d  e  f  g  h")
}
