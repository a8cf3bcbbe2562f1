package steg

import (
	"encoding/binary"
	"fmt"
)

// HeaderProvider produces the byte sequence embedded ahead of the payload.
// The stream treats it as opaque bytes: it asks for the size and the bytes,
// never for the fields inside.
type HeaderProvider interface {
	HeaderSize() int
	HeaderBytes(dataLength, channelBits int) ([]byte, error)
}

const (
	headerMagic   = "OSTG"
	headerVersion = 1
	headerLength  = 11
)

// header flags, recorded by the payload pipeline and replayed on extraction
const (
	FlagCompressed = 1 << 0
	FlagEncrypted  = 1 << 1
)

// DataHeader is the standard header: magic, version, flags, payload length
// and the negotiated channel depth. It always travels at one bit per channel
// so a reader can recover the depth without knowing it in advance.
type DataHeader struct {
	Flags       uint8
	DataLength  int
	ChannelBits int
}

func (h *DataHeader) HeaderSize() int {
	return headerLength
}

func (h *DataHeader) HeaderBytes(dataLength, channelBits int) ([]byte, error) {
	if dataLength < 0 || int64(dataLength) > 0xffffffff {
		return nil, fmt.Errorf("data length %d does not fit in the header", dataLength)
	}
	if channelBits < 1 || channelBits > 8 {
		return nil, fmt.Errorf("channel bits must be between 1 and 8, got %d", channelBits)
	}
	h.DataLength = dataLength
	h.ChannelBits = channelBits

	buf := make([]byte, headerLength)
	copy(buf, headerMagic)
	buf[4] = headerVersion
	buf[5] = h.Flags
	binary.BigEndian.PutUint32(buf[6:10], uint32(dataLength))
	buf[10] = byte(channelBits)
	return buf, nil
}

// ParseHeader decodes header bytes recovered from a carrier.
func ParseHeader(raw []byte) (*DataHeader, error) {
	if len(raw) < headerLength {
		return nil, fmt.Errorf("header truncated: %d bytes", len(raw))
	}
	if string(raw[:4]) != headerMagic {
		return nil, fmt.Errorf("no embedded data found")
	}
	if raw[4] != headerVersion {
		return nil, fmt.Errorf("unsupported header version %d", raw[4])
	}
	bits := int(raw[10])
	if bits < 1 || bits > 8 {
		return nil, fmt.Errorf("corrupt header: %d bits per channel", bits)
	}
	return &DataHeader{
		Flags:       raw[5],
		DataLength:  int(binary.BigEndian.Uint32(raw[6:10])),
		ChannelBits: bits,
	}, nil
}

// HeaderSize is the size of the standard DataHeader in bytes.
func HeaderSize() int {
	return headerLength
}
