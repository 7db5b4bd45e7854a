// Package apperr defines the sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNoItems   = errors.New("no items to process")
	ErrNoDigest  = errors.New("no digest published yet")
	ErrBadFilter = errors.New("invalid filter")
)
