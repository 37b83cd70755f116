package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
)

var (
	ErrInternalServer  = errors.New("Internal server error")
	ErrClient          = errors.New("Invalid input.")
	ErrProductNotFound = errors.New("Product not found")
	ErrDataIntegrity   = errors.New("Product document is missing its id")
	ErrConflict        = errors.New("Product was modified concurrently")
)

// errorStatuses is checked in order, so an error wrapping more than one
// sentinel gets the status of the most specific one.
var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrClient, ErrStatusClient},
	{ErrProductNotFound, ErrStatusNotFound},
	{ErrConflict, ErrStatusConflict},
	{ErrDataIntegrity, ErrStatusInternalServer},
	{ErrInternalServer, ErrStatusInternalServer},
}

// GetErrorStatusCode maps err, or the first sentinel it wraps, to an HTTP
// status. Unknown errors map to 500.
func GetErrorStatusCode(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}

	return ErrStatusInternalServer
}
