package domain

import "errors"

// ErrInvalidDocument is returned when an imported XML document is not well-formed.
var ErrInvalidDocument = errors.New("invalid document")

// ErrStorageFailure is returned when a project snapshot cannot be persisted.
var ErrStorageFailure = errors.New("storage failure")

// ErrProjectNotFound is returned when no project is stored under a key.
var ErrProjectNotFound = errors.New("project not found")
