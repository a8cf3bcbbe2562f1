package steg

import (
	"errors"
	"testing"
)

func TestNegotiateChannelBits(t *testing.T) {
	testCases := []struct {
		name       string
		pixels     int
		dataLength int
		headerSize int
		maxBits    int
		want       int
		wantErr    bool
	}{
		{
			// 10x10 carrier: depth 1 holds floor(100/8)=12 bytes, 13 are
			// needed, depth 2 holds 25
			name:   "depth bumped to two",
			pixels: 100, dataLength: 5, headerSize: 8, maxBits: 4,
			want: 2,
		},
		{
			name:   "depth one suffices",
			pixels: 100, dataLength: 2, headerSize: 8, maxBits: 4,
			want: 1,
		},
		{
			name:   "exact fit at depth one",
			pixels: 104, dataLength: 5, headerSize: 8, maxBits: 4,
			want: 1,
		},
		{
			name:   "exact fit at max depth",
			pixels: 100, dataLength: 39, headerSize: 11, maxBits: 4,
			want: 4,
		},
		{
			name:   "one byte over max depth",
			pixels: 100, dataLength: 40, headerSize: 11, maxBits: 4,
			wantErr: true,
		},
		{
			name:   "empty payload still needs the header",
			pixels: 1, dataLength: 0, headerSize: 11, maxBits: 8,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		bits, err := negotiateChannelBits(tc.pixels, tc.dataLength, tc.headerSize, tc.maxBits)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected an error, got depth %d", tc.name, bits)
			} else if !errors.Is(err, ErrInsufficientCapacity) {
				t.Errorf("%s: expected ErrInsufficientCapacity, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		} else if bits != tc.want {
			t.Errorf("%s: got depth %d, want %d", tc.name, bits, tc.want)
		}
	}
}

func TestCapacityMonotonicInPixels(t *testing.T) {
	for bits := 1; bits <= 8; bits++ {
		prev := -1
		for pixels := 0; pixels < 500; pixels += 7 {
			c := Capacity(pixels, headerLength, bits)
			if c < prev {
				t.Fatalf("capacity dropped from %d to %d at %d pixels, %d bits",
					prev, c, pixels, bits)
			}
			prev = c
		}
	}
}

func TestCapacityNeverNegative(t *testing.T) {
	if c := Capacity(1, headerLength, 1); c != 0 {
		t.Errorf("tiny image should have zero capacity, got %d", c)
	}
}
