package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrFetchFailure    = errors.New("fetch failed")
	ErrStale           = errors.New("stale response discarded")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
)
