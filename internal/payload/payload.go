// Package payload loads the document to be concealed and renders it in the
// canonical byte form that the fragmenter splits.
package payload

import (
	"errors"
)

var (
	ErrUnsupportedType = errors.New("value is not JSON-serializable")
	ErrEmpty           = errors.New("payload file is empty")
)

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers the order its keys were read in.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// set stores value under key. A key already present keeps its position and
// takes the new value, as a later duplicate in a JSON document does.
func (o Object) set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Key: key, Value: value})
}
