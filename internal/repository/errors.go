package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// unique violation / lost compare-and-set
	ErrConflict = errors.New("conflict")
)
