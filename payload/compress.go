package payload

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Compress gzips data and reports whether that actually shrank it: status 1
// with the compressed bytes when it did, status 0 with the original bytes
// when it did not.
func Compress(data []byte) (uint8, []byte, error) {
	if len(data) == 0 {
		return 0, data, nil
	}

	compressed, err := compress(data)
	if err != nil {
		return 0, nil, err
	}
	if len(compressed) >= len(data) {
		return 0, data, nil
	}
	return 1, compressed, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, gz); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
