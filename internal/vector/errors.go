package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length does not equal
	// the collection's configured embedding dimension. Fatal to that insert
	// or query, never to the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrDuplicateExternalID is returned when an insert carries an external id
	// already present in the collection. The index is left unchanged. One
	// vector per external entity: re-embedding must not go through a second
	// insert.
	ErrDuplicateExternalID = errors.New("duplicate external id")

	// ErrInvalidArgument is returned for caller errors such as k <= 0.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageIO is returned when a durable write or reload fails. The
	// operation is not considered complete and on-disk state stays consistent.
	ErrStorageIO = errors.New("storage i/o failure")
)
