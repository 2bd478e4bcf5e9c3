package base64

import (
	"crypto/subtle"
	"errors"
	"slices"
)

const (
	// Pad is the padding character.
	Pad = '='

	// LineLength is the number of characters per line written by
	// EncodeLines.
	LineLength = 76

	// lineBytes is the number of source bytes encoded into one
	// full line.
	lineBytes = LineLength / 4 * 3
)

// ErrCorrupt is returned when the Base64-encoded input is
// incorrect.
var ErrCorrupt = errors.New("base64: input is corrupt")

// crlf separates lines written by EncodeLines.
var crlf = [2]byte{'\r', '\n'}

// EncodedLen returns the size in bytes of the Base64 encoding
// of n source bytes.
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// EncodedLinesLen returns the size in bytes of the output of
// EncodeLines for n source bytes.
func EncodedLinesLen(n int) int {
	m := EncodedLen(n)
	if m == 0 {
		return 0
	}
	return m + (m-1)/LineLength*len(crlf)
}

// DecodedLen returns the maximum length in bytes of n bytes of
// Base64-encoded data.
func DecodedLen(n int) int {
	return n / 4 * 3
}

// Encode encodes src, writing EncodedLen(len(src)) bytes to dst.
//
// Encode runs in constant time for the length of src.
func Encode(dst, src []byte) {
	for len(src) >= 3 {
		_ = dst[3] // bounds check hint
		v := uint(src[0])<<16 | uint(src[1])<<8 | uint(src[2])
		dst[0] = lookup(v >> 18 & 0x3f)
		dst[1] = lookup(v >> 12 & 0x3f)
		dst[2] = lookup(v >> 6 & 0x3f)
		dst[3] = lookup(v & 0x3f)
		src = src[3:]
		dst = dst[4:]
	}

	switch len(src) {
	case 2:
		v := uint(src[0])<<16 | uint(src[1])<<8
		dst[3] = Pad
		dst[2] = lookup(v >> 6 & 0x3f)
		dst[1] = lookup(v >> 12 & 0x3f)
		dst[0] = lookup(v >> 18 & 0x3f)
	case 1:
		v := uint(src[0]) << 16
		dst[3] = Pad
		dst[2] = Pad
		dst[1] = lookup(v >> 12 & 0x3f)
		dst[0] = lookup(v >> 18 & 0x3f)
	}
}

// EncodeLines is like Encode, but inserts "\r\n" after every
// LineLength output characters except after the final line.
//
// It writes EncodedLinesLen(len(src)) bytes to dst and returns
// that count.
func EncodeLines(dst, src []byte) int {
	n := 0
	for len(src) > 0 {
		k := min(len(src), lineBytes)
		if n > 0 {
			n += copy(dst[n:], crlf[:])
		}
		Encode(dst[n:], src[:k])
		n += EncodedLen(k)
		src = src[k:]
	}
	return n
}

// AppendEncode appends the encoding of src to dst and returns
// the extended slice.
func AppendEncode(dst, src []byte) []byte {
	n := EncodedLen(len(src))
	dst = slices.Grow(dst, n)
	Encode(dst[len(dst):len(dst)+n], src)
	return dst[:len(dst)+n]
}

// AppendEncodeLines appends the line-wrapped encoding of src to
// dst and returns the extended slice.
func AppendEncodeLines(dst, src []byte) []byte {
	n := EncodedLinesLen(len(src))
	dst = slices.Grow(dst, n)
	EncodeLines(dst[len(dst):len(dst)+n], src)
	return dst[:len(dst)+n]
}

// Decode decodes src, writing at most DecodedLen(len(src)) bytes
// to dst.
//
// It returns the total number of bytes written to dst, even when
// src contains invalid Base64. If src contains invalid Base64,
// Decode returns ErrCorrupt.
//
// Decode runs in constant time for the length of src.
func Decode(dst, src []byte) (n int, err error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(src)%4 != 0 {
		// Padded base64 is always a multiple of 4.
		return 0, ErrCorrupt
	}

	// The second to last character only counts as padding if
	// the last one does.
	t := subtle.ConstantTimeByteEq(src[len(src)-1], Pad)
	t += subtle.ConstantTimeByteEq(src[len(src)-2], Pad) & t
	src = src[:len(src)-t]

	var failed byte
	for len(src) >= 4 {
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))
		c2 := revLookup(uint(src[2]))
		c3 := revLookup(uint(src[3]))

		_ = dst[n+2] // bounds check hint
		dst[n+0] = c0<<2 | c1>>4
		dst[n+1] = c1<<4 | c2>>2
		dst[n+2] = c2<<6 | c3

		failed |= c0 | c1 | c2 | c3

		src = src[4:]
		n += 3
	}

	switch len(src) {
	case 3:
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))
		c2 := revLookup(uint(src[2]))

		dst[n+0] = c0<<2 | c1>>4
		dst[n+1] = c1<<4 | c2>>2

		failed |= c0 | c1 | c2
		n += 2
	case 2:
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))

		dst[n+0] = c0<<2 | c1>>4

		failed |= c0 | c1
		n++
	}

	// Valid values are < 64, so any invalid character turns
	// every bit on.
	if failed == 0xff {
		err = ErrCorrupt
	}
	return n, err
}

// IsAlphabet reports whether c is one of the 64 characters of
// the standard alphabet. Padding is not part of the alphabet.
//
// IsAlphabet runs in constant time.
func IsAlphabet(c byte) bool {
	return subtle.ConstantTimeByteEq(revLookup(uint(c)), 0xff) == 0
}

// atLeast returns all ones in [8:0] if c >= k and zero
// otherwise.
//
// c and k must be in [0, 256].
func atLeast(c, k uint) uint {
	return (k - c - 1) >> 8
}

// between returns all ones in [8:0] if lo <= c <= hi and zero
// otherwise.
//
// c, lo and hi must be in [0, 256].
func between(c, lo, hi uint) uint {
	return ((lo - 1 - c) & (c - hi - 1)) >> 8
}

// lookup converts the 6-bit value c to its corresponding
// base64 character.
//
// c must be in [0, 63].
//
// See http://0x80.pl/notesen/2016-01-12-sse-base64-encoding.html
func lookup(c uint) byte {
	s := uint('A')
	s += atLeast(c, 26) & 6  // 'a' - 26 - 'A'
	s -= atLeast(c, 52) & 75 // ('a' - 26) - ('0' - 52)
	s -= atLeast(c, 62) & 15 // ('0' - 52) - ('+' - 62)
	s += atLeast(c, 63) & 3  // ('/' - 63) - ('+' - 62)
	return byte(c + s)
}

// revLookup converts the base64 character c to its 6-bit
// binary value.
//
// If the character is invalid revLookup returns 0xff.
func revLookup(c uint) byte {
	// The offsets wrap c around 256 so that (c+s)&0x3f is the
	// value:
	//
	//    'A'-'Z': 191
	//    'a'-'z': 185
	//    '0'-'9': 4
	//    '+':     19
	//    '/':     16
	//
	// The ranges are disjoint, so at most one term is non-zero.
	s := between(c, 'A', 'Z')&191 ^
		between(c, 'a', 'z')&185 ^
		between(c, '0', '9')&4 ^
		between(c, '+', '+')&19 ^
		between(c, '/', '/')&16
	// s == 0 means the input is corrupt.
	return byte((s+c)&0x3f | ((((0 - s) >> 8) & 0xff) ^ 0xff))
}
