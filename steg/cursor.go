package steg

// cursor walks pixel positions in strict raster order: left to right, then
// top to bottom. y == height marks exhaustion.
type cursor struct {
	x, y          int
	width, height int
}

func (c *cursor) advance() {
	c.x++
	if c.x == c.width {
		c.x = 0
		c.y++
	}
}

func (c *cursor) exhausted() bool {
	return c.y == c.height
}

// accumulator gathers the bits destined for one pixel: three groups of
// channelBits bits, one group per color channel.
type accumulator struct {
	bits []byte
	pos  int
}

func newAccumulator(channelBits int) *accumulator {
	return &accumulator{bits: make([]byte, 3*channelBits)}
}

// push appends one bit and reports whether the accumulator is now full.
func (a *accumulator) push(bit byte) bool {
	a.bits[a.pos] = bit
	a.pos++
	return a.pos == len(a.bits)
}

func (a *accumulator) reset() {
	a.pos = 0
}

// pad fills the unwritten tail with zero bits.
func (a *accumulator) pad() {
	for i := a.pos; i < len(a.bits); i++ {
		a.bits[i] = 0
	}
}

// channelValue folds the bit group of channel ch into an integer, most
// significant bit first.
func (a *accumulator) channelValue(ch int) uint32 {
	depth := len(a.bits) / 3
	v := uint32(0)
	for i := 0; i < depth; i++ {
		v = v<<1 | uint32(a.bits[ch*depth+i])
	}
	return v
}
