package encoding

import (
	"encoding/base64"
	"errors"
)

// Base64Encoder turns the payload into standard padded base64, which keeps
// fragment bodies printable but hides the JSON structure from a casual grep.
type Base64Encoder struct{}

func NewBase64Encoder(string) (Encoder, error) {
	return &Base64Encoder{}, nil
}

func (e *Base64Encoder) Name() string {
	return "base64"
}

func (e *Base64Encoder) Encode(data []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(out, data)
	return out, nil
}

func (e *Base64Encoder) Decode(data []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(out, data)
	if err != nil {
		return nil, errors.Join(ErrInvalidData, err)
	}
	return out[:n], nil
}
