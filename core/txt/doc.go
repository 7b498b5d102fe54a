// Package txt encodes and decodes TXT record values.
//
// A TXT record stores its value as a sequence of character strings, each at most
// 255 bytes long. Route53 expects every string to be wrapped in double quotes, with
// adjacent strings concatenated without a separator:
//
//	"first 255 bytes...""remaining bytes"
//
// Encode produces that wire form from an arbitrary value and Decode reverses it,
// so Decode(Encode(v)) == v for every v.
package txt
