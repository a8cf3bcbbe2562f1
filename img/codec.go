package img

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
)

// carrier formats, detected from magic bytes
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Detect sniffs the carrier format. GIF and JPEG are recognized but
// rejected: GIF pixels are palette indices, not channels, and JPEG
// recompression destroys low-order bits.
func Detect(data []byte) (string, error) {
	if len(data) >= 8 &&
		data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4e && data[3] == 0x47 &&
		data[4] == 0x0d && data[5] == 0x0a && data[6] == 0x1a && data[7] == 0x0a {
		return FormatPNG, nil
	}
	if len(data) >= 2 && data[0] == 0x42 && data[1] == 0x4d {
		return FormatBMP, nil
	}
	if len(data) >= 3 && data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "", fmt.Errorf("GIF is palette-indexed and cannot carry channel bits")
	}
	if len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff {
		return "", fmt.Errorf("JPEG is lossy and would destroy embedded bits")
	}
	return "", fmt.Errorf("unsupported image format")
}

// Decode detects the carrier format and returns the image as a mutable RGBA
// canvas along with the detected format name.
func Decode(data []byte) (*image.RGBA, string, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, "", err
	}

	var src image.Image
	switch format {
	case FormatPNG:
		src, err = png.Decode(bytes.NewReader(data))
	case FormatBMP:
		src, err = bmp.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s carrier: %w", format, err)
	}
	return ToRGBA(src), format, nil
}

// ToRGBA copies src into a fresh RGBA canvas.
func ToRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}

// Encode writes the carrier back in the given format. Both PNG and BMP store
// pixels losslessly, which the embedded bits depend on.
func Encode(m image.Image, format string) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(buf, m)
	case FormatBMP:
		err = bmp.Encode(buf, m)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s carrier: %w", format, err)
	}
	return buf.Bytes(), nil
}
