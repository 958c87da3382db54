package certificates

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no certificate matched the given identifier.
	ErrNotFound = errors.New("certificate not found")
	// ErrAlreadyMinted indicates a certificate already exists for the session.
	ErrAlreadyMinted = errors.New("certificate already minted for session")
	// ErrNoPhotos indicates a completion was requested for a session with an
	// empty photo log.
	ErrNoPhotos = errors.New("session has no documented photos")
	// ErrInvalidInput indicates a malformed or incomplete request.
	ErrInvalidInput = errors.New("invalid certificate input")
)

// MapHTTPStatus maps certificate errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadyMinted) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoPhotos) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
