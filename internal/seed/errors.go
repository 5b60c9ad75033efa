package seed

import "errors"

// Sentinel kinds for seed decoding errors.
var (
	ErrUnknownFormat = errors.New("unknown seed format")
	ErrDecode        = errors.New("decode seed")
)
