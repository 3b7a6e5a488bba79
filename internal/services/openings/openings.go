// Package openings classifies a move sequence against a fixed table of
// named chess openings.
package openings

import "sort"

// Opening is a named opening with its defining move prefix
type Opening struct {
	Name  string
	Moves []string
	// ECO is the Encyclopedia of Chess Openings code
	ECO string
}

// DetectionBound is the ply count beyond which no table entry can match;
// detection is skipped past it.
const DetectionBound = 10

var table = []Opening{
	// King's pawn openings
	{Name: "Italian Game", Moves: []string{"e4", "e5", "Nf3", "Nc6", "Bc4"}, ECO: "C50"},
	{Name: "Ruy Lopez", Moves: []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}, ECO: "C60"},
	{Name: "Sicilian Defense", Moves: []string{"e4", "c5"}, ECO: "B20"},
	{Name: "French Defense", Moves: []string{"e4", "e6"}, ECO: "C00"},
	{Name: "Caro-Kann Defense", Moves: []string{"e4", "c6"}, ECO: "B10"},
	{Name: "Scandinavian Defense", Moves: []string{"e4", "d5"}, ECO: "B01"},
	{Name: "Four Knights Game", Moves: []string{"e4", "e5", "Nf3", "Nc6", "Nc3", "Nf6"}, ECO: "C47"},
	{Name: "Scotch Game", Moves: []string{"e4", "e5", "Nf3", "Nc6", "d4"}, ECO: "C45"},
	{Name: "King's Gambit", Moves: []string{"e4", "e5", "f4"}, ECO: "C30"},
	{Name: "Petrov's Defense", Moves: []string{"e4", "e5", "Nf3", "Nf6"}, ECO: "C42"},
	{Name: "Pirc Defense", Moves: []string{"e4", "d6"}, ECO: "B07"},

	// Queen's pawn openings
	{Name: "Queen's Gambit", Moves: []string{"d4", "d5", "c4"}, ECO: "D06"},
	{Name: "Queen's Gambit Accepted", Moves: []string{"d4", "d5", "c4", "dxc4"}, ECO: "D20"},
	{Name: "Queen's Gambit Declined", Moves: []string{"d4", "d5", "c4", "e6"}, ECO: "D30"},
	{Name: "Slav Defense", Moves: []string{"d4", "d5", "c4", "c6"}, ECO: "D10"},
	{Name: "King's Indian Defense", Moves: []string{"d4", "Nf6", "c4", "g6"}, ECO: "E60"},
	{Name: "Nimzo-Indian Defense", Moves: []string{"d4", "Nf6", "c4", "e6", "Nc3", "Bb4"}, ECO: "E20"},
	{Name: "Grunfeld Defense", Moves: []string{"d4", "Nf6", "c4", "g6", "Nc3", "d5"}, ECO: "D70"},
	{Name: "Dutch Defense", Moves: []string{"d4", "f5"}, ECO: "A80"},
	{Name: "Benoni Defense", Moves: []string{"d4", "Nf6", "c4", "c5"}, ECO: "A56"},
	{Name: "Bogo-Indian Defense", Moves: []string{"d4", "Nf6", "c4", "e6", "Nf3", "Bb4+"}, ECO: "E11"},

	// Flank openings
	{Name: "English Opening", Moves: []string{"c4"}, ECO: "A10"},
	{Name: "Reti Opening", Moves: []string{"Nf3"}, ECO: "A04"},
	{Name: "Bird's Opening", Moves: []string{"f4"}, ECO: "A02"},

	// Semi-open games
	{Name: "Alekhine's Defense", Moves: []string{"e4", "Nf6"}, ECO: "B02"},
	{Name: "Modern Defense", Moves: []string{"e4", "g6"}, ECO: "B06"},
}

// Detect returns the most specific (longest-prefix) opening matching the
// given SAN move sequence, or nil if none matches or the sequence exceeds
// the detection bound.
func Detect(moves []string) *Opening {
	if len(moves) == 0 || len(moves) > DetectionBound {
		return nil
	}

	// Longest prefix first so the most specific line wins
	sorted := make([]Opening, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Moves) > len(sorted[j].Moves)
	})

	for i := range sorted {
		opening := &sorted[i]
		if len(opening.Moves) > len(moves) {
			continue
		}
		match := true
		for j, move := range opening.Moves {
			if moves[j] != move {
				match = false
				break
			}
		}
		if match {
			return opening
		}
	}
	return nil
}
