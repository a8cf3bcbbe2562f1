package cryptography

import (
	"crypto/rand"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SymKeySize = 32
	SaltSize   = 16
	NonceSize  = chacha20poly1305.NonceSize
	TagSize    = 16
)

// Encrypt seals data with chacha20poly1305. The random nonce is prepended to
// the ciphertext.
func Encrypt(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("nothing to encrypt")
	}
	if len(key) != SymKeySize {
		return nil, fmt.Errorf("invalid key")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, data, nil), nil
}

// Decrypt reverses Encrypt. Fails if the ciphertext was tampered with or the
// key is wrong.
func Decrypt(data, key []byte) ([]byte, error) {
	if len(key) != SymKeySize {
		return nil, fmt.Errorf("invalid key")
	}
	if len(data) < NonceSize+TagSize {
		return nil, fmt.Errorf("invalid length of data")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, data[:NonceSize], data[NonceSize:], nil)
}

// GenRandom returns size cryptographically random bytes.
func GenRandom(size uint) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("invalid size of random data")
	}
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, err
	}
	return data, nil
}

// DeriveKey stretches a passphrase into a symmetric key.
func DeriveKey(password, salt []byte) []byte {
	// the argon2 draft RFC recommends time=3; 32 MB is a sensible memory cost
	threads := uint8(runtime.NumCPU())
	return argon2.IDKey(password, salt, 3, 32*1024, threads, SymKeySize)
}
