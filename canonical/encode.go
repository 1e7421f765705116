package canonical

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/modelops/contracts"
)

// Encode canonicalizes v and serializes it to canonical JSON bytes: the
// exact byte sequence that contract digests are computed over.
func Encode(v any) ([]byte, error) {
	c, err := Canonicalize(v)
	if err != nil {
		return nil, err
	}
	return EncodeValue(c)
}

// EncodeValue serializes an already-canonical Value tree to canonical
// JSON bytes. Floats are re-checked for finiteness so that a
// hand-constructed Float(NaN) cannot reach the wire.
func EncodeValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, v Value) error {
	const op = "canonical.EncodeValue"

	switch t := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case Uint:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))
	case Float:
		f := float64(t)
		if !isFinite(f) {
			return contracts.NewNonFiniteValueError(op, f)
		}
		buf.WriteString(formatFloat(f))
	case String:
		appendString(buf, string(t))
	case Array:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendString(buf, k)
			buf.WriteByte(':')
			if err := appendValue(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case nil:
		return contracts.NewUnsupportedTypeError(op, v)
	default:
		return contracts.NewUnsupportedTypeError(op, v)
	}
	return nil
}

// formatFloat renders a finite float in the contract form: shortest
// round-trip digits, fixed notation for decimal exponents in [-4, 16)
// with a trailing ".0" on integral values, exponent notation otherwise
// with an explicit sign and at least two exponent digits. This matches
// the producer's historical encoder byte-for-byte.
func formatFloat(f float64) string {
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantEnd := strings.IndexByte(sci, 'e')
	exp, _ := strconv.Atoi(sci[mantEnd+1:])

	if exp < -4 || exp >= 16 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}

// appendString writes a JSON string with the contract escaping rules:
// only `"` and `\` are escaped among printable characters, control
// characters use the short escapes or lowercase \u00xx, and everything
// else (including non-ASCII) passes through literally as UTF-8.
func appendString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"':
			buf.WriteString(`\"`)
		case b == '\\':
			buf.WriteString(`\\`)
		case b == '\b':
			buf.WriteString(`\b`)
		case b == '\f':
			buf.WriteString(`\f`)
		case b == '\n':
			buf.WriteString(`\n`)
		case b == '\r':
			buf.WriteString(`\r`)
		case b == '\t':
			buf.WriteString(`\t`)
		case b < 0x20:
			fmt.Fprintf(buf, `\u%04x`, b)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte('"')
}
