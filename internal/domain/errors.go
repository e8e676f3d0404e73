package domain

import "errors"

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates an insert was skipped because the record
// already exists.
var ErrDuplicate = errors.New("record already exists")

// ErrInvalidTransition indicates a status update that would move an
// article backwards in the pipeline.
var ErrInvalidTransition = errors.New("invalid status transition")
