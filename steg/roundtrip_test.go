package steg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	testCases := []struct {
		name    string
		w, h    int
		length  int
		maxBits int
	}{
		{"empty payload", 10, 10, 0, 3},
		{"single byte", 10, 10, 1, 3},
		{"forces depth two", 10, 10, 14, 8},
		{"forces depth four", 10, 10, 39, 4},
		{"deep and small", 12, 12, 80, 8},
		{"wide carrier", 100, 2, 50, 4},
		{"tall carrier", 2, 100, 50, 4},
		{"large payload", 64, 64, 1500, 4},
	}

	for _, tc := range testCases {
		payload := make([]byte, tc.length)
		rng.Read(payload)

		m := testImage(tc.w, tc.h)
		w, err := NewWriter(m, len(payload), &DataHeader{Flags: FlagCompressed}, tc.maxBits)
		if err != nil {
			t.Fatalf("%s: construction failed: %v", tc.name, err)
		}
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("%s: write failed: %v", tc.name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("%s: close failed: %v", tc.name, err)
		}

		r, err := NewReader(m)
		if err != nil {
			t.Fatalf("%s: reader construction failed: %v", tc.name, err)
		}
		if r.ChannelBits() != w.ChannelBits() {
			t.Errorf("%s: reader depth %d, writer depth %d",
				tc.name, r.ChannelBits(), w.ChannelBits())
		}
		if r.DataLength() != len(payload) {
			t.Errorf("%s: reader length %d, want %d",
				tc.name, r.DataLength(), len(payload))
		}
		if r.Header().Flags != FlagCompressed {
			t.Errorf("%s: flags %#x did not survive", tc.name, r.Header().Flags)
		}

		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("%s: read failed: %v", tc.name, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("%s: payload spoiled by the carrier round trip", tc.name)
		}
	}
}

func TestRoundTripByteAtATime(t *testing.T) {
	payload := []byte("written one byte at a time")
	m := testImage(16, 16)

	w, err := NewWriter(m, len(payload), &DataHeader{}, 3)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	for _, b := range payload {
		if err := w.WriteByte(b); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	r, err := NewReader(m)
	if err != nil {
		t.Fatalf("reader construction failed: %v", err)
	}
	got := make([]byte, 0, len(payload))
	one := make([]byte, 1)
	for {
		n, err := r.Read(one)
		if n == 1 {
			got = append(got, one[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestReaderRejectsPalettedImage(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 64, 64), color.Palette{
		color.RGBA{A: 0xff},
	})
	if _, err := NewReader(m); !errors.Is(err, ErrInvalidCarrier) {
		t.Fatalf("expected ErrInvalidCarrier, got %v", err)
	}
}

func TestReaderRejectsNilImage(t *testing.T) {
	if _, err := NewReader(nil); !errors.Is(err, ErrInvalidCarrier) {
		t.Fatalf("expected ErrInvalidCarrier, got %v", err)
	}
}

func TestReaderOnCleanImage(t *testing.T) {
	// a carrier nobody wrote to should not parse as one
	if _, err := NewReader(testImage(20, 20)); err == nil {
		t.Fatal("clean image parsed as a carrier")
	}
}

func TestReaderNonZeroOriginBounds(t *testing.T) {
	// writer and reader must agree on geometry even when bounds do not
	// start at the origin
	m := image.NewRGBA(image.Rect(5, 7, 25, 27))
	for y := 7; y < 27; y++ {
		for x := 5; x < 25; x++ {
			m.SetRGBA(x, y, color.RGBA{R: uint8(x * y), G: uint8(x + y), B: uint8(x ^ y), A: 0xff})
		}
	}
	payload := []byte("offset bounds")

	w, err := NewWriter(m, len(payload), &DataHeader{}, 3)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	r, err := NewReader(m)
	if err != nil {
		t.Fatalf("reader construction failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}
