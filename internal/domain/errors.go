package domain

import "errors"

var (
	// ErrProviderUnavailable means the model is warming up; the caller may retry shortly.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderError       = errors.New("provider error")
	ErrTimeout             = errors.New("provider timeout")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidInput        = errors.New("invalid input")
)
