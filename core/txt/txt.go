package txt

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSegmentLength is the largest character string a TXT record can hold.
const MaxSegmentLength = 255

// ErrMalformed is returned by Decode for values that are not valid quoted segments.
var ErrMalformed = errors.New("malformed txt value")

// Split cuts value into consecutive segments of at most MaxSegmentLength bytes.
// An empty value yields a single empty segment.
func Split(value string) []string {
	if value == "" {
		return []string{""}
	}

	segments := make([]string, 0, (len(value)+MaxSegmentLength-1)/MaxSegmentLength)
	for start := 0; start < len(value); start += MaxSegmentLength {
		end := start + MaxSegmentLength
		if end > len(value) {
			end = len(value)
		}
		segments = append(segments, value[start:end])
	}
	return segments
}

// Quote renders segments in the quoted wire form. Quotes and backslashes are
// backslash escaped; control and non-ASCII bytes become three digit octal
// escapes, so a segment cut inside a multi-byte rune stays byte exact.
func Quote(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('"')
		for i := 0; i < len(seg); i++ {
			c := seg[i]
			switch {
			case c == '"' || c == '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case c < 0x20 || c >= 0x7f:
				fmt.Fprintf(&b, "\\%03o", c)
			default:
				b.WriteByte(c)
			}
		}
		b.WriteByte('"')
	}
	return b.String()
}

// Encode splits value into segments and quotes them.
func Encode(value string) string {
	return Quote(Split(value))
}

// Decode concatenates the quoted segments of an encoded value.
// Backslash escapes (\" \\ and three digit octal codes) are resolved. In a
// value starting with a quote, whitespace between segments is a separator and
// is dropped. Unquoted legacy values are kept verbatim.
func Decode(encoded string) (string, error) {
	var b strings.Builder
	quoted := false
	segmented := strings.HasPrefix(strings.TrimLeft(encoded, " \t"), `"`)

	for i := 0; i < len(encoded); i++ {
		c := encoded[i]

		if c == '"' {
			quoted = !quoted
			continue
		}

		if !quoted && segmented && (c == ' ' || c == '\t') {
			continue
		}

		if !quoted || c != '\\' {
			b.WriteByte(c)
			continue
		}

		if i+1 >= len(encoded) {
			return "", fmt.Errorf("%w: trailing escape in %q", ErrMalformed, encoded)
		}

		if code, ok := octal(encoded[i+1:]); ok {
			b.WriteByte(code)
			i += 3
			continue
		}

		i++
		b.WriteByte(encoded[i])
	}

	if quoted {
		return "", fmt.Errorf("%w: unterminated quote in %q", ErrMalformed, encoded)
	}

	return b.String(), nil
}

// octal parses a leading three digit octal escape.
func octal(s string) (byte, bool) {
	if len(s) < 3 {
		return 0, false
	}
	var v int
	for i := 0; i < 3; i++ {
		d := s[i]
		if d < '0' || d > '7' {
			return 0, false
		}
		v = v*8 + int(d-'0')
	}
	if v > 0xff {
		return 0, false
	}
	return byte(v), true
}
