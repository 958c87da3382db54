package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session ledger operations.
var (
	ErrNotFound       = errors.New("session not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrDuplicatePhoto = errors.New("photo already recorded for session")
	ErrCompleted      = errors.New("session is completed")
	ErrInvalidStatus  = errors.New("invalid session status")
	ErrInvalidInput   = errors.New("invalid session input")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrPhotoNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicatePhoto) || errors.Is(err, ErrCompleted) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
