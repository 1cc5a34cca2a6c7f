package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a search request that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidContent signals a capture request that failed validation.
	ErrInvalidContent = errors.New("invalid content")
	// ErrServiceUnavailable signals that a search collaborator could not be reached.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// Collaborator names used in UnavailableError.
const (
	ServiceEmbedding   = "embedding"
	ServiceVectorStore = "vector store"
	ServiceTextIndex   = "text index"
)

// UnavailableError wraps ErrServiceUnavailable with the collaborator that failed.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return ErrServiceUnavailable }

// NewUnavailable marks err as an availability failure of the named collaborator.
func NewUnavailable(service string, err error) error {
	return &UnavailableError{Service: service, Err: err}
}
