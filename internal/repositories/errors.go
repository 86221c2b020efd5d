package repositories

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("record already exists")
