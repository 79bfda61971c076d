package workflows

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for workflow operations.
var (
	ErrNotFound       = errors.New("workflow not found")
	ErrDuplicate      = errors.New("workflow already exists")
	ErrInvalidRequest = errors.New("invalid workflow request")
)

// NotFoundError names the workflow id that could not be found.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("workflow with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MapHTTPStatus maps workflow domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
