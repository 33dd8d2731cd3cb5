package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Load reads a JSON or YAML document from path. Files ending in .yaml or .yml
// are decoded as YAML, anything else as JSON.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v, err := DecodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		return v, nil
	default:
		v, err := DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		return v, nil
	}
}

// DecodeJSON decodes exactly one JSON value, keeping object key order and
// number literals as written.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj = obj.set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string, json.Number, bool or nil
		return t, nil
	}
}

// DecodeYAML decodes a YAML document into the same shapes DecodeJSON produces.
func DecodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return fromYAML(raw)
}

func fromYAML(v any) (any, error) {
	switch t := v.(type) {
	case yaml.MapSlice:
		obj := make(Object, 0, len(t))
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			obj = obj.set(key, val)
		}
		return obj, nil
	case []any:
		arr := make([]any, len(t))
		for i, item := range t {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, 0, len(t))
		for _, k := range sortedKeys(t) {
			val, err := fromYAML(t[k])
			if err != nil {
				return nil, err
			}
			obj = obj.set(k, val)
		}
		return obj, nil
	default:
		return t, nil
	}
}
