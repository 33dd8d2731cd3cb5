package encoding

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidData = errors.New("invalid encoded data")
	ErrUnknownMode = errors.New("unknown encoding mode")
)

// Encoder applies a reversible transform to the serialized payload before it
// is fragmented, so that the fragments alone do not reveal the document.
type Encoder interface {
	// Name returns the encoder identifier
	Name() string

	Encode(data []byte) ([]byte, error)

	// Decode reverses Encode
	Decode(data []byte) ([]byte, error)
}

// NewFunc is a constructor function for creating encoders
type NewFunc func(passphrase string) (Encoder, error)

// Registry maps encoder names to constructor functions
var Registry = map[string]NewFunc{
	"none":     NewNoneEncoder,
	"base64":   NewBase64Encoder,
	"chacha20": NewChaCha20Encoder,
}

// New creates an encoder by name with the given passphrase
func New(name, passphrase string) (Encoder, error) {
	fn, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	return fn(passphrase)
}
