package stresslog

import "errors"

var (
	// ErrInvalidLevel indicates a level outside 1–5.
	ErrInvalidLevel = errors.New("stress level must be between 1 and 5")
	// ErrInvalidInput indicates invalid stress log input.
	ErrInvalidInput = errors.New("invalid stress log input")
)
