package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrEdgeNotFound   = fmt.Errorf("%w: edge", ErrNotFound)
	ErrAnswerNotFound = fmt.Errorf("%w: answer", ErrNotFound)

	ErrInvalidMatrix   = errors.New("invalid contingency matrix")
	ErrMalformedAnswer = errors.New("malformed answer document")
)

// NewNotFoundError builds a not-found error carrying the resource id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidMatrix) || errors.Is(err, ErrMalformedAnswer)
}
