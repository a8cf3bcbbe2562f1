package payload

import (
	"fmt"

	"github.com/jcrunjie/openstego/cryptography"
	"github.com/jcrunjie/openstego/steg"
)

// Wrap prepares payload bytes for embedding: gzip compression when it helps,
// then encryption under a passphrase-derived key. The returned flags record
// what was applied so Unwrap can undo it; they go into the embedded header.
// A random salt travels in front of the ciphertext.
func Wrap(data []byte, compress bool, passphrase []byte) ([]byte, uint8, error) {
	var flags uint8
	if len(data) == 0 {
		return data, 0, nil
	}

	if compress {
		status, out, err := Compress(data)
		if err != nil {
			return nil, 0, err
		}
		if status == 1 {
			flags |= steg.FlagCompressed
			data = out
		}
	}

	if len(passphrase) > 0 {
		salt, err := cryptography.GenRandom(cryptography.SaltSize)
		if err != nil {
			return nil, 0, err
		}
		key := cryptography.DeriveKey(passphrase, salt)
		ct, err := cryptography.Encrypt(data, key)
		if err != nil {
			return nil, 0, err
		}
		flags |= steg.FlagEncrypted
		data = append(salt, ct...)
	}

	return data, flags, nil
}

// Unwrap reverses Wrap according to the header flags.
func Unwrap(data []byte, flags uint8, passphrase []byte) ([]byte, error) {
	if flags&steg.FlagEncrypted != 0 {
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("data is encrypted, a passphrase is required")
		}
		if len(data) < cryptography.SaltSize {
			return nil, fmt.Errorf("encrypted data is truncated")
		}
		salt := data[:cryptography.SaltSize]
		key := cryptography.DeriveKey(passphrase, salt)
		pt, err := cryptography.Decrypt(data[cryptography.SaltSize:], key)
		if err != nil {
			return nil, fmt.Errorf("decryption failed (wrong passphrase?): %w", err)
		}
		data = pt
	}

	if flags&steg.FlagCompressed != 0 {
		out, err := Decompress(data)
		if err != nil {
			return nil, err
		}
		data = out
	}

	return data, nil
}
