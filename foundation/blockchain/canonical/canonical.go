// Package canonical provides the sorted-key text encoding used to fingerprint
// records and to exchange chains between parties.
//
// The encoding is the compact-with-spaces form of a sorted-key JSON dump:
// object keys ordered by code point, ", " between elements, ": " between a key
// and its value, and every character outside printable ASCII escaped as a
// lowercase \uXXXX sequence. Two structurally identical values always produce
// identical bytes no matter how they were built.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"
)

// Marshal returns the canonical encoding of the specified value. Any value
// encoding/json can marshal is accepted, struct fields are named by their
// json tags.
func Marshal(value any) ([]byte, error) {

	// Let encoding/json resolve tags, Marshaler implementations and map key
	// conversions, then rebuild a generic tree that keeps numbers exact.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, tree); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// =============================================================================

// encode writes the generic value in canonical form.
func encode(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")

	case bool:
		if v {
			buf.WriteString("true")
			return nil
		}
		buf.WriteString("false")

	case json.Number:
		buf.WriteString(v.String())

	case string:
		writeString(buf, v)

	case []any:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		// Byte order of UTF-8 strings is code point order.
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeString(buf, key)
			buf.WriteString(": ")
			if err := encode(buf, v[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	default:
		return fmt.Errorf("unsupported type %T", value)
	}

	return nil
}

// writeString writes a quoted string using ASCII only.
func writeString(buf *bytes.Buffer, s string) {
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
				r1, r2 := utf16.EncodeRune(r)
				writeEscape(buf, r1)
				writeEscape(buf, r2)
			default:
				writeEscape(buf, r)
			}
		}
	}

	buf.WriteByte('"')
}

// writeEscape writes a single \uXXXX escape in lowercase hex.
func writeEscape(buf *bytes.Buffer, r rune) {
	const hexDigits = "0123456789abcdef"

	buf.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		buf.WriteByte(hexDigits[(r>>uint(shift))&0xf])
	}
}
