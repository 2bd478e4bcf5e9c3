// Package b64stream converts between binary data and standard
// base64 text without holding the whole content in memory.
//
// Data is processed in blocks (see BlockSize). Each block is
// aligned to whole base64 groups, so the output of a streaming
// conversion is byte for byte identical to converting the entire
// input at once, with or without line wrapping (see LineBreaks).
//
// # Content length
//
// Every operation takes a content length: the number of source
// units (bytes when encoding, characters when decoding) to
// process. LengthUnknown means "as much as the source has".
//
// If the source can report how much it has left, either through
// a Len() int method (*bytes.Reader, *bytes.Buffer,
// *strings.Reader) or by implementing io.Seeker, an explicit
// length longer than that is silently trimmed. Otherwise the
// length is trusted and the conversion simply ends early if the
// source runs dry.
//
// The source is never read past the content length. Callers may
// keep reading from it afterward and pick up exactly where the
// conversion stopped.
//
// # Decoding
//
// CopyFromBase64 skips spaces, tabs, '\r' and '\n', and stops at
// the first character that is neither whitespace nor base64,
// leaving it unread:
//
//	r := strings.NewReader("TWFu<tail>")
//	var out bytes.Buffer
//	err := b64stream.CopyFromBase64(r, b64stream.LengthUnknown, &out)
//	// out.String() == "Man", the next byte read from r is '<'
package b64stream
