package steg

import (
	"errors"
)

var (
	// ErrInvalidCarrier means the image cannot carry channel bits at all:
	// it is nil or uses a palette-indexed color model.
	ErrInvalidCarrier = errors.New("invalid carrier image")

	// ErrInsufficientCapacity means the image has too few pixels for the
	// data, either during capacity planning or when a pixel commit runs
	// past the last row.
	ErrInsufficientCapacity = errors.New("image is too small to hold the data")

	// ErrStreamClosed is returned on writes after Close.
	ErrStreamClosed = errors.New("stream is closed")
)
