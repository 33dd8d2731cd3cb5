package encoding

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	data := []byte(`{"radius": 118.53, "coordinates": {"lat": 54.01078, "lon": 38.29855}}`)

	for name := range Registry {
		t.Run(name, func(t *testing.T) {
			enc, err := New(name, "correct horse")
			if err != nil {
				t.Fatalf("New(%q) error = %v", name, err)
			}
			if enc.Name() != name {
				t.Errorf("Name() = %q, want %q", enc.Name(), name)
			}

			encoded, err := enc.Encode(data)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if name != "none" && bytes.Contains(encoded, []byte("radius")) {
				t.Errorf("%s output still contains plaintext: %q", name, encoded)
			}

			decoded, err := enc.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !bytes.Equal(decoded, data) {
				t.Errorf("Decode(Encode(x)) = %q, want %q", decoded, data)
			}
		})
	}
}

func TestChaCha20WrongPassphrase(t *testing.T) {
	data := []byte("the flag is here")

	a, err := New("chacha20", "alpha")
	if err != nil {
		t.Fatal(err)
	}
	b, err := New("chacha20", "bravo")
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := a.Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != len(data)+12 {
		t.Errorf("encoded length = %d, want %d", len(encoded), len(data)+12)
	}
	decoded, err := b.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(decoded, data) {
		t.Error("decoding with another passphrase must not recover the plaintext")
	}
}

func TestDecodeInvalid(t *testing.T) {
	c, _ := New("chacha20", "alpha")
	if _, err := c.Decode([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidData) {
		t.Errorf("chacha20 Decode(short) error = %v, want ErrInvalidData", err)
	}

	b, _ := New("base64", "")
	if _, err := b.Decode([]byte("!!!")); !errors.Is(err, ErrInvalidData) {
		t.Errorf("base64 Decode(garbage) error = %v, want ErrInvalidData", err)
	}
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New("rot13", "")
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("New(rot13) error = %v, want ErrUnknownMode", err)
	}
	if _, err := New("chacha20", ""); err == nil {
		t.Error("New(chacha20) without passphrase should fail")
	}
}
