package steg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// header bytes always travel at this depth so a reader can recover them
// before it knows the negotiated one
const baselineBits = 1

// Writer embeds a byte stream into the low bits of an image's color
// channels. The header travels at one bit per channel starting at the top
// left pixel; payload bytes follow at the negotiated depth, starting on a
// fresh pixel.
//
// The image is borrowed, not copied: pixels mutate in place as bytes are
// written, and the caller must leave it alone until the stream is closed.
// Pixels committed before an error stay mutated.
type Writer struct {
	img    draw.Image
	bounds image.Rectangle

	channelBits int // active depth; baseline during the header, negotiated after
	dataLength  int

	cur cursor
	acc *accumulator

	closed bool
}

// NewWriter plans the channel depth for dataLength payload bytes, embeds the
// header produced by hdr and leaves the stream positioned for the first
// payload byte. maxBits caps the depth the planner may pick.
func NewWriter(m draw.Image, dataLength int, hdr HeaderProvider, maxBits int) (*Writer, error) {
	if m == nil {
		return nil, fmt.Errorf("nil image: %w", ErrInvalidCarrier)
	}
	if _, ok := m.ColorModel().(color.Palette); ok {
		return nil, fmt.Errorf("palette-indexed images cannot carry channel bits: %w", ErrInvalidCarrier)
	}
	if dataLength < 0 {
		return nil, fmt.Errorf("negative data length %d", dataLength)
	}
	if maxBits < 1 || maxBits > 8 {
		return nil, fmt.Errorf("max bits per channel must be between 1 and 8, got %d", maxBits)
	}

	b := m.Bounds()
	w := &Writer{
		img:         m,
		bounds:      b,
		channelBits: baselineBits,
		dataLength:  dataLength,
		cur:         cursor{width: b.Dx(), height: b.Dy()},
		acc:         newAccumulator(baselineBits),
	}
	if err := w.writeHeader(hdr, maxBits); err != nil {
		return nil, err
	}
	return w, nil
}

// writeHeader negotiates the payload depth, embeds the header bytes at the
// baseline depth and resizes the accumulator for the payload. The capacity
// check assumes a uniform depth for header and payload even though the
// header really travels at the baseline; the commit-time backstop catches
// the shortfall near the boundary.
func (w *Writer) writeHeader(hdr HeaderProvider, maxBits int) error {
	pixels := w.bounds.Dx() * w.bounds.Dy()
	bits, err := negotiateChannelBits(pixels, w.dataLength, hdr.HeaderSize(), maxBits)
	if err != nil {
		return err
	}
	raw, err := hdr.HeaderBytes(w.dataLength, bits)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if w.acc.pos != 0 {
		w.acc.pad()
		if err := w.commit(); err != nil {
			return err
		}
		w.acc.reset()
		w.cur.advance()
	}
	w.channelBits = bits
	w.acc = newAccumulator(bits)
	return nil
}

// WriteByte feeds one byte into the stream, most significant bit first.
// Each time the accumulator fills, one pixel is rewritten.
func (w *Writer) WriteByte(b byte) error {
	if w.closed {
		return ErrStreamClosed
	}
	for bit := 7; bit >= 0; bit-- {
		if full := w.acc.push((b >> uint(bit)) & 1); full {
			if err := w.commit(); err != nil {
				return err
			}
			w.acc.reset()
			w.cur.advance()
		}
	}
	return nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := w.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Flush commits the pending group as it stands, without padding and without
// moving the cursor. Subsequent writes keep filling the same group and will
// rewrite the same pixel when it completes.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	return w.commit()
}

// Close pads the pending group with zero bits, commits it, advances past the
// pixel and seals the stream. Terminal: writes fail afterwards.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if w.acc.pos != 0 {
		w.acc.pad()
		if err := w.commit(); err != nil {
			return err
		}
		w.acc.reset()
		w.cur.advance()
	}
	w.closed = true
	return nil
}

// Image flushes pending bits and hands back the carrier. The returned image
// is the same object passed to NewWriter, mutated in place.
func (w *Writer) Image() (draw.Image, error) {
	if !w.closed {
		if err := w.Flush(); err != nil {
			return nil, err
		}
	}
	return w.img, nil
}

// DataLength returns the payload length declared at construction.
func (w *Writer) DataLength() int {
	return w.dataLength
}

// ChannelBits returns the negotiated payload depth.
func (w *Writer) ChannelBits() int {
	return w.channelBits
}

// commit rewrites the pixel under the cursor with the accumulated bit
// groups. The low channelBits of each channel are masked out of the packed
// RGB value at once, with the per-channel mask replicated into each byte
// lane, and the folded group values ORed back in. Alpha is carried over
// untouched.
func (w *Writer) commit() error {
	if w.cur.exhausted() {
		return fmt.Errorf("ran out of pixels at row %d: %w", w.cur.y, ErrInsufficientCapacity)
	}
	x := w.bounds.Min.X + w.cur.x
	y := w.bounds.Min.Y + w.cur.y

	r, g, b, a := w.img.At(x, y).RGBA()
	packed := (r>>8)<<16 | (g>>8)<<8 | (b >> 8)

	mask := uint32(1)<<uint(w.channelBits) - 1
	packed &^= mask<<16 | mask<<8 | mask

	var groups uint32
	for ch := 0; ch < 3; ch++ {
		groups = groups<<8 | w.acc.channelValue(ch)
	}
	packed |= groups

	w.img.Set(x, y, color.RGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: uint8(a >> 8),
	})
	return nil
}
