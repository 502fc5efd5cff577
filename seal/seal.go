// Package seal encrypts finished artifacts with a passphrase.
//
// An envelope is the magic line "RPSEAL1\n", a 16 byte salt, a 12 byte nonce
// and the AES-256-GCM ciphertext. The key is PBKDF2-HMAC-SHA256 of the
// passphrase and salt; the iteration count is not stored, so Open must use
// the same Options as Seal.
package seal

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Magic             = "RPSEAL1\n"
	DefaultIterations = 600000
	SaltSize          = 16
	NonceSize         = 12
	keySize           = 32
)

var (
	// ErrDecrypt means the passphrase is wrong or the data was altered.
	ErrDecrypt = errors.New("seal: decryption failed")
	// ErrEnvelope means the input is not a sealed envelope.
	ErrEnvelope = errors.New("seal: malformed envelope")
	// ErrEmptyPassphrase is returned when no passphrase is given.
	ErrEmptyPassphrase = errors.New("seal: empty passphrase")
)

// Options tunes key derivation.
type Options struct {
	Iterations int // zero means DefaultIterations
	// Rand supplies salt and nonce; nil means crypto/rand.
	Rand io.Reader
}

func (o Options) iterations() int {
	if o.Iterations <= 0 {
		return DefaultIterations
	}
	return o.Iterations
}

func (o Options) rand() io.Reader {
	if o.Rand == nil {
		return rand.Reader
	}
	return o.Rand
}

// Seal encrypts data under passphrase.
func Seal(data []byte, passphrase string, opts Options) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	head := make([]byte, SaltSize+NonceSize)
	if _, err := io.ReadFull(opts.rand(), head); err != nil {
		return nil, fmt.Errorf("seal: read random: %w", err)
	}
	salt, nonce := head[:SaltSize], head[SaltSize:]
	gcm, err := newGCM(passphrase, salt, opts.iterations())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(Magic)+len(head)+len(data)+gcm.Overhead())
	out = append(out, Magic...)
	out = append(out, head...)
	return gcm.Seal(out, nonce, data, []byte(Magic)), nil
}

// Open reverses Seal.
func Open(envelope []byte, passphrase string, opts Options) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if !IsSealed(envelope) || len(envelope) < len(Magic)+SaltSize+NonceSize+16 {
		return nil, ErrEnvelope
	}
	body := envelope[len(Magic):]
	salt, nonce, ciphertext := body[:SaltSize], body[SaltSize:SaltSize+NonceSize], body[SaltSize+NonceSize:]
	gcm, err := newGCM(passphrase, salt, opts.iterations())
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, []byte(Magic))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// IsSealed reports whether data starts with the envelope magic.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

func newGCM(passphrase string, salt []byte, iterations int) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("seal: cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("seal: gcm: %w", err)
	}
	return gcm, nil
}
