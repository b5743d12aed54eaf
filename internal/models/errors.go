package models

import "errors"

// Custom errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrNoSnapshot = errors.New("no cached snapshot available")
)
