package steg

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Reader extracts a byte stream hidden by Writer. The header fields are read
// at one bit per channel; once parsed they fix the payload depth and length.
// Read returns io.EOF after exactly DataLength payload bytes.
type Reader struct {
	img    image.Image
	bounds image.Rectangle

	header      *DataHeader
	channelBits int

	cur  cursor
	bits []byte // bits of the pixel being consumed
	pos  int

	remaining int
}

// NewReader parses the embedded header from m and positions the stream at
// the first payload byte.
func NewReader(m image.Image) (*Reader, error) {
	if m == nil {
		return nil, fmt.Errorf("nil image: %w", ErrInvalidCarrier)
	}
	if _, ok := m.ColorModel().(color.Palette); ok {
		return nil, fmt.Errorf("palette-indexed images carry no channel bits: %w", ErrInvalidCarrier)
	}
	b := m.Bounds()
	r := &Reader{
		img:         m,
		bounds:      b,
		channelBits: baselineBits,
		cur:         cursor{width: b.Dx(), height: b.Dy()},
	}

	raw := make([]byte, headerLength)
	for i := range raw {
		v, err := r.readByte()
		if err != nil {
			return nil, err
		}
		raw[i] = v
	}
	hdr, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}

	// the writer pads a partial header group and starts the payload on a
	// fresh pixel; drop the rest of the pixel being consumed to line up
	r.bits = nil
	r.pos = 0

	r.header = hdr
	r.channelBits = hdr.ChannelBits
	r.remaining = hdr.DataLength
	return r, nil
}

// Read implements io.Reader over the embedded payload bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.remaining == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && r.remaining > 0 {
		b, err := r.readByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
		r.remaining--
	}
	return n, nil
}

// Header returns the parsed header.
func (r *Reader) Header() *DataHeader {
	return r.header
}

// DataLength returns the payload length declared in the header.
func (r *Reader) DataLength() int {
	return r.header.DataLength
}

// ChannelBits returns the payload depth declared in the header.
func (r *Reader) ChannelBits() int {
	return r.header.ChannelBits
}

func (r *Reader) readByte() (byte, error) {
	var v byte
	for i := 0; i < 8; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | bit
	}
	return v, nil
}

func (r *Reader) readBit() (byte, error) {
	if r.pos == len(r.bits) {
		if err := r.loadPixel(); err != nil {
			return 0, err
		}
	}
	bit := r.bits[r.pos]
	r.pos++
	return bit, nil
}

// loadPixel pulls the low channelBits of each channel under the cursor into
// the bit buffer, most significant bit of each group first, and advances the
// cursor.
func (r *Reader) loadPixel() error {
	if r.cur.exhausted() {
		return fmt.Errorf("image ended before the embedded data: %w", io.ErrUnexpectedEOF)
	}
	x := r.bounds.Min.X + r.cur.x
	y := r.bounds.Min.Y + r.cur.y

	cr, cg, cb, _ := r.img.At(x, y).RGBA()
	mask := uint32(1)<<uint(r.channelBits) - 1

	r.bits = r.bits[:0]
	for _, c := range [3]uint32{cr >> 8, cg >> 8, cb >> 8} {
		v := c & mask
		for i := r.channelBits - 1; i >= 0; i-- {
			r.bits = append(r.bits, byte(v>>uint(i))&1)
		}
	}
	r.pos = 0
	r.cur.advance()
	return nil
}
