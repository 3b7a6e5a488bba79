package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateName  = errors.New("player name already taken")

	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameConcluded    = errors.New("game has already concluded")
	ErrGameNotConcluded = errors.New("game has not concluded")
	ErrUndoAlreadyUsed  = errors.New("emergency undo has already been used")

	// Input and access errors
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrAccessDenied = errors.New("access denied")

	// Rules errors
	ErrIllegalMove = errors.New("illegal move")

	// Storage errors
	// ErrWrongEncoding marks a collection still stored in the legacy
	// whole-collection-as-single-blob encoding. It is absorbed by the
	// migrator and never surfaces past it on success.
	ErrWrongEncoding = errors.New("collection stored in legacy encoding")
)
