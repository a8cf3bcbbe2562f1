package steg

import (
	"fmt"
)

// negotiateChannelBits picks the smallest per-channel depth that fits
// dataLength payload bytes plus headerSize bytes into the given pixel count.
// First fit ascending, capped by maxBits.
func negotiateChannelBits(pixels, dataLength, headerSize, maxBits int) (int, error) {
	for bits := 1; bits <= maxBits; bits++ {
		if pixels*bits/8 >= dataLength+headerSize {
			return bits, nil
		}
	}
	return 0, fmt.Errorf("%d bytes do not fit at %d bits per channel: %w",
		dataLength+headerSize, maxBits, ErrInsufficientCapacity)
}

// Capacity returns how many payload bytes fit into pixels at the given depth
// once the header overhead is taken out.
func Capacity(pixels, headerSize, bits int) int {
	n := pixels*bits/8 - headerSize
	if n < 0 {
		return 0
	}
	return n
}
