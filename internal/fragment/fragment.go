// Package fragment splits a serialized payload into ordered chunks and pairs
// each chunk with its marker.
package fragment

import (
	"errors"
	"fmt"
)

var ErrInvalidCount = errors.New("fragment count must be >= 1")

// Fragment is one contiguous slice of the serialized payload.
type Fragment struct {
	Index  int
	Bytes  []byte
	Marker string
}

// Split partitions data into exactly count contiguous chunks. Every chunk but
// the last is len(data)/count bytes long; the last one takes the remainder.
// When count exceeds len(data) the leading chunks are empty and the last chunk
// holds all of data.
func Split(data []byte, count int) ([][]byte, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	size := len(data) / count
	chunks := make([][]byte, count)
	for i := 0; i < count-1; i++ {
		chunks[i] = data[i*size : (i+1)*size : (i+1)*size]
	}
	chunks[count-1] = data[(count-1)*size:]
	return chunks, nil
}

// Coalesce concatenates chunks in order.
func Coalesce(chunks [][]byte) []byte {
	totalLen := 0
	for _, chunk := range chunks {
		totalLen += len(chunk)
	}

	result := make([]byte, 0, totalLen)
	for _, chunk := range chunks {
		result = append(result, chunk...)
	}
	return result
}

// New splits data into len(markers) fragments, assigning markers[i] to the
// fragment with index i.
func New(data []byte, markers []string) ([]Fragment, error) {
	chunks, err := Split(data, len(markers))
	if err != nil {
		return nil, err
	}

	frags := make([]Fragment, len(chunks))
	for i, chunk := range chunks {
		frags[i] = Fragment{Index: i, Bytes: chunk, Marker: markers[i]}
	}
	return frags, nil
}

// Reassemble orders fragments by index and concatenates their bytes. Indices
// must form the sequence 0..len(frags)-1.
func Reassemble(frags []Fragment) ([]byte, error) {
	chunks := make([][]byte, len(frags))
	for _, f := range frags {
		if f.Index < 0 || f.Index >= len(frags) || chunks[f.Index] != nil {
			return nil, fmt.Errorf("fragment index %d out of sequence", f.Index)
		}
		chunks[f.Index] = f.Bytes
		if chunks[f.Index] == nil {
			chunks[f.Index] = []byte{}
		}
	}
	return Coalesce(chunks), nil
}
