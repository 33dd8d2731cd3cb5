package encoding

// NoneEncoder leaves the payload as is.
type NoneEncoder struct{}

func NewNoneEncoder(string) (Encoder, error) {
	return &NoneEncoder{}, nil
}

func (e *NoneEncoder) Name() string {
	return "none"
}

func (e *NoneEncoder) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (e *NoneEncoder) Decode(data []byte) ([]byte, error) {
	return data, nil
}
