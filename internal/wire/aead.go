package wire

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AEAD wraps a cipher.AEAD configured for AES-256-GCM with this
// protocol's fixed parameters: a 12-byte nonce, a 16-byte tag, and empty
// associated data.
type AEAD struct {
	gcm cipher.AEAD
}

// NewAEAD builds an AEAD from a 32-byte key.
func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("wire: key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("wire: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wire: new gcm: %w", err)
	}
	if gcm.NonceSize() != len(Nonce{}) {
		return nil, fmt.Errorf("wire: unexpected gcm nonce size %d", gcm.NonceSize())
	}

	return &AEAD{gcm: gcm}, nil
}

// SealInPlace seals plaintext (buf[:plaintextLen]) in place using nonce,
// writing ciphertext||tag back into buf starting at offset 0, and
// returns the sealed length (plaintextLen + TagLen). buf must have
// capacity for at least plaintextLen + TagLen bytes.
func (a *AEAD) SealInPlace(nonce Nonce, buf []byte, plaintextLen int) int {
	sealed := a.gcm.Seal(buf[:0], nonce[:], buf[:plaintextLen], nil)
	return len(sealed)
}

// OpenInPlace verifies and decrypts buf (ciphertext||tag) in place using
// nonce, returning the plaintext slice aliasing buf's storage. It fails
// with a CryptoError-class error on tag mismatch.
func (a *AEAD) OpenInPlace(nonce Nonce, buf []byte) ([]byte, error) {
	plaintext, err := a.gcm.Open(buf[:0], nonce[:], buf, nil)
	if err != nil {
		return nil, fmt.Errorf("wire: aead open: %w", err)
	}
	return plaintext, nil
}

// Overhead is the AEAD's fixed expansion, the tag length.
func (a *AEAD) Overhead() int {
	return a.gcm.Overhead()
}
