package uploads

import (
	"errors"
	"net/http"
)

var (
	// ErrBusy indicates a batch upload is already in flight for the session.
	ErrBusy = errors.New("upload already in progress for session")
	// ErrNoFiles indicates a batch run was requested with zero files.
	ErrNoFiles = errors.New("no files to upload")
	// ErrPhotoNotFound indicates no local photo entry matched the given URL.
	ErrPhotoNotFound = errors.New("photo not found in session view")
	// ErrNoActiveUpload indicates a cancellation was requested with no batch in flight.
	ErrNoActiveUpload = errors.New("no active upload for session")
)

// MapHTTPStatus maps upload pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrBusy) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoFiles) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPhotoNotFound) || errors.Is(err, ErrNoActiveUpload) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
