package encoding

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfSalt       = "pcapveil-encoding"
	kdfIterations = 100_000
)

// ChaCha20Encoder XORs the payload with a ChaCha20 keystream derived from a
// passphrase. Frame format: [12 bytes: nonce] [N bytes: ciphertext]
// There is no authentication tag; trainees are expected to know the passphrase.
type ChaCha20Encoder struct {
	key []byte
}

func NewChaCha20Encoder(passphrase string) (Encoder, error) {
	if passphrase == "" {
		return nil, errors.New("chacha20 encoding requires a passphrase")
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(kdfSalt), kdfIterations, chacha20.KeySize, sha256.New)
	return &ChaCha20Encoder{key: key}, nil
}

func (e *ChaCha20Encoder) Name() string {
	return "chacha20"
}

func (e *ChaCha20Encoder) Encode(data []byte) ([]byte, error) {
	result := make([]byte, chacha20.NonceSize+len(data))
	nonce := result[:chacha20.NonceSize]
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	c, err := chacha20.NewUnauthenticatedCipher(e.key, nonce)
	if err != nil {
		return nil, err
	}
	c.XORKeyStream(result[chacha20.NonceSize:], data)
	return result, nil
}

func (e *ChaCha20Encoder) Decode(data []byte) ([]byte, error) {
	if len(data) < chacha20.NonceSize {
		return nil, ErrInvalidData
	}

	c, err := chacha20.NewUnauthenticatedCipher(e.key, data[:chacha20.NonceSize])
	if err != nil {
		return nil, err
	}
	result := make([]byte, len(data)-chacha20.NonceSize)
	c.XORKeyStream(result, data[chacha20.NonceSize:])
	return result, nil
}
