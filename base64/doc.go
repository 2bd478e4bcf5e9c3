// Package base64 implements constant-time base64 encoding and
// decoding with the standard alphabet and '=' padding, as
// specified by RFC 4648.
//
// It only deals with whole buffers. Streaming, chunking and line
// wrapping across buffers are handled by the parent package.
//
// Comparison to encoding/base64
//
// Unlike encoding/base64, Decode rejects the newline characters
// '\r' and '\n'. Callers must strip whitespace first.
//
// Unlike encoding/base64, this package does not return partial
// Base64-encoded data. For example:
//
//    src := []byte("aGVsb?8=")
//    base64.StdEncoding.Decode(dst, src) // 3, CorruptInputError(5)
//    Decode(dst, src)                    // 5, ErrCorrupt
//
// Padding is only accepted as the last one or two characters of
// src. Anywhere else it is corrupt input.
package base64
