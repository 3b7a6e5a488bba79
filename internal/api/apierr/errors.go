package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nachoupps/chessy/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeDuplicateName    = "DUPLICATE_NAME"
	CodeGameConcluded    = "GAME_CONCLUDED"
	CodeGameNotConcluded = "GAME_NOT_CONCLUDED"
	CodeUndoAlreadyUsed  = "UNDO_ALREADY_USED"
	CodeIllegalMove      = "ILLEGAL_MOVE"
	CodeForbidden        = "FORBIDDEN"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// NewHTTPError creates an error carrying an explicit status and code
func NewHTTPError(status int, code, message string) error {
	return &httpError{status, APIError{code, message}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateName, "Name is already registered"}}
	case errors.Is(err, model.ErrGameConcluded):
		return &httpError{http.StatusConflict, APIError{CodeGameConcluded, "Game has already concluded"}}
	case errors.Is(err, model.ErrGameNotConcluded):
		return &httpError{http.StatusConflict, APIError{CodeGameNotConcluded, "Game has not concluded"}}
	case errors.Is(err, model.ErrUndoAlreadyUsed):
		return &httpError{http.StatusConflict, APIError{CodeUndoAlreadyUsed, "Undo has already been used in this game"}}
	case errors.Is(err, model.ErrIllegalMove):
		return &httpError{http.StatusConflict, APIError{CodeIllegalMove, "Move is not legal in this position"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Operation not permitted"}}
	case errors.Is(err, model.ErrAccessDenied):
		return &httpError{http.StatusForbidden, APIError{CodeAccessDenied, "Access denied"}}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}
