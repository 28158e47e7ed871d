package service

import "errors"

var (
	ErrMissingFields  = errors.New("missing-fields")   // 422
	ErrOutOfInventory = errors.New("out-of-inventory") // 422
	ErrAlreadyPaid    = errors.New("already-paid")     // 422
	ErrNotFound       = errors.New("not-found")        // 404
)
