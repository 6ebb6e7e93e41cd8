package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")

	// ErrEmbedding marks failures of the embedding backend, ErrStore failures
	// of the persistence layer. Callers tell both apart from ErrUnauthorized
	// to pick between a retry prompt and a permission prompt.
	ErrEmbedding = errors.New("embedding failed")
	ErrStore     = errors.New("store failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsEmbedding(err error) bool {
	return errors.Is(err, ErrEmbedding)
}

func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
