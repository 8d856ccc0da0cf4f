package application

import "errors"

// Application error types
var (
	ErrDecoderExists   = errors.New("decoder name already in use")
	ErrDecoderNotFound = errors.New("decoder not found")
	ErrNotStarted      = errors.New("window not started")
)
