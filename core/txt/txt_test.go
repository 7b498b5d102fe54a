package txt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen []int
	}{
		{"Empty", 0, []int{0}},
		{"Short", 10, []int{10}},
		{"ExactlyOneSegment", 255, []int{255}},
		{"OneOver", 256, []int{255, 1}},
		{"ExactlyTwoSegments", 510, []int{255, 255}},
		{"Long", 1000, []int{255, 255, 255, 235}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Split(strings.Repeat("a", tt.length))
			lengths := make([]int, 0, len(segments))
			for _, s := range segments {
				lengths = append(lengths, len(s))
			}
			assert.Equal(t, tt.wantLen, lengths)
		})
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, `""`, Encode(""))
	assert.Equal(t, `"hello"`, Encode("hello"))

	long := strings.Repeat("a", 255) + "b"
	assert.Equal(t, `"`+strings.Repeat("a", 255)+`""b"`, Encode(long))

	assert.Equal(t, `"say \"hi\" \\o/"`, Encode(`say "hi" \o/`))
	assert.Equal(t, `"caf\303\251"`, Encode("café"))
	assert.Equal(t, `"a\011b\177"`, Encode("a\tb\x7f"))
}

func TestEncode_RuneOnSegmentBoundary(t *testing.T) {
	value := strings.Repeat("a", 254) + "é" + "z"

	encoded := Encode(value)
	assert.True(t, utf8.ValidString(encoded))
	assert.Equal(t, `"`+strings.Repeat("a", 254)+`\303""\251z"`, encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)
}

func TestRoundTrip(t *testing.T) {
	values := []string{
		"",
		strings.Repeat("x", 255),
		strings.Repeat("x", 256),
		strings.Repeat("x", 510),
		strings.Repeat("y", 1000),
		"alice:x:1000:1000:Alice,,,,:/home/alice:/bin/bash",
		`quotes " and \ backslashes \101`,
		strings.Repeat("a", 254) + "é" + "z",
		"Zoë Ångström,,,,",
		"ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl alice@example",
	}

	for _, v := range values {
		decoded, err := Decode(Encode(v))
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"SingleSegment", `"abc"`, "abc", false},
		{"MultipleSegments", `"abc""def"`, "abcdef", false},
		{"OctalEscape", `"a\100b"`, "a@b", false},
		{"SpaceSeparatedSegments", `"abc" "def"`, "abcdef", false},
		{"TabSeparatedSegments", "\"abc\"\t\"def\"", "abcdef", false},
		{"SpaceInsideQuotes", `"abc def"`, "abc def", false},
		{"UnquotedWithSpaces", `abc def`, "abc def", false},
		{"Unquoted", `abc`, "abc", false},
		{"Unterminated", `"abc`, "", true},
		{"TrailingEscape", `"abc\`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
