package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Serialize renders v as JSON with ", " and ": " separators and only ASCII
// text: every other rune is written as a \uXXXX escape. Object keys keep their
// order; plain maps are emitted with sorted keys. Integer literals are kept as
// written and every other number is normalized like a float64.
func Serialize(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		encodeString(buf, t)
	case json.Number:
		return encodeNumber(buf, string(t))
	case float64:
		return encodeFloat(buf, t)
	case float32:
		return encodeFloat(buf, float64(t))
	case int, int8, int16, int32, int64:
		buf.WriteString(strconv.FormatInt(reflect.ValueOf(t).Int(), 10))
	case uint, uint8, uint16, uint32, uint64:
		buf.WriteString(strconv.FormatUint(reflect.ValueOf(t).Uint(), 10))
	case Object:
		buf.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			encodeString(buf, m.Key)
			buf.WriteString(": ")
			if err := encode(buf, m.Value); err != nil {
				return fmt.Errorf("%s: %w", m.Key, err)
			}
		}
		buf.WriteByte('}')
	case map[string]any:
		buf.WriteByte('{')
		for i, k := range sortedKeys(t) {
			if i > 0 {
				buf.WriteString(", ")
			}
			encodeString(buf, k)
			buf.WriteString(": ")
			if err := encode(buf, t[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := encode(buf, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// encodeString quotes s with the short escapes for the usual control
// characters and \uXXXX for everything outside printable ASCII, using a
// surrogate pair above U+FFFF. Invalid UTF-8 becomes U+FFFD.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteByte(byte(r))
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(buf, hi)
				writeUnicodeEscape(buf, lo)
			default:
				writeUnicodeEscape(buf, r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		buf.WriteByte(hexDigits[(r>>shift)&0xf])
	}
}

// encodeNumber writes a JSON number literal. Integers keep their digits;
// fractions and exponents go through encodeFloat, so 1e3 becomes 1000.0.
func encodeNumber(buf *bytes.Buffer, lit string) error {
	if lit != "" && !strings.ContainsAny(lit, ".eE") {
		if _, ok := new(big.Int).SetString(lit, 10); !ok {
			return fmt.Errorf("%w: invalid number %q", ErrUnsupportedType, lit)
		}
		if lit == "-0" {
			lit = "0"
		}
		buf.WriteString(lit)
		return nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid number %q", ErrUnsupportedType, lit)
	}
	return encodeFloat(buf, f)
}

func encodeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrUnsupportedType, f)
	}
	// Scientific notation outside [1e-4, 1e16), like most JSON writers.
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		buf.WriteString(strconv.FormatFloat(f, 'e', -1, 64))
		return nil
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	buf.WriteString(s)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
