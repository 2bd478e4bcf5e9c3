package b64stream

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/ericlagergren/b64stream/base64"
)

const opDecode = "decode"

// isSpace reports whether c is whitespace the decoder skips.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// decoder holds the state of one CopyFromBase64 call.
type decoder struct {
	src      io.ByteScanner
	dst      io.Writer
	length   int64  // character budget, or LengthUnknown
	consumed int64  // characters consumed, whitespace included
	chars    []byte // valid characters of the current iteration
	out      []byte // decoded bytes of the current iteration
}

// fill reads characters into d.chars until it is full, the
// budget is spent, the source ends, or a character that is
// neither base64 nor whitespace comes up. That character is
// pushed back so the source stays positioned on it.
//
// It returns the number of valid characters buffered and whether
// decoding should stop after them.
func (d *decoder) fill() (n int, done bool, err error) {
	for n < len(d.chars) {
		if d.length != LengthUnknown && d.consumed == d.length {
			return n, true, nil
		}
		c, err := d.src.ReadByte()
		if errors.Is(err, io.EOF) {
			return n, true, nil
		}
		if err != nil {
			return n, true, err
		}
		switch {
		case base64.IsAlphabet(c) || c == base64.Pad:
			d.chars[n] = c
			n++
		case isSpace(c):
		default:
			if err := d.src.UnreadByte(); err != nil {
				return n, true, err
			}
			return n, true, nil
		}
		d.consumed++
	}
	return n, false, nil
}

// flushChars decodes the n buffered characters and writes them
// to the destination. start is the offset of the first character
// of the iteration.
func (d *decoder) flushChars(n int, start int64) error {
	if n == 0 {
		return nil
	}
	if n%4 != 0 {
		return newError(opDecode, ErrFormat, &FormatError{
			Offset: start,
			Reason: "base64 input ends in the middle of a group",
		})
	}
	m, err := base64.Decode(d.out, d.chars[:n])
	if err != nil {
		return newError(opDecode, ErrFormat, &FormatError{
			Offset: start,
			Reason: "malformed base64 group",
			Err:    err,
		})
	}
	if _, err := d.dst.Write(d.out[:m]); err != nil {
		return newError(opDecode, ErrIO, err)
	}
	return nil
}

func (d *decoder) run() error {
	for {
		start := d.consumed
		n, done, err := d.fill()
		if err != nil {
			return newError(opDecode, ErrIO, err)
		}
		if err := d.flushChars(n, start); err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// CopyFromBase64 decodes up to contentLength base64 characters
// from src and writes the bytes to dst, one block at a time.
//
// Whitespace (space, tab, '\r', '\n') is skipped but counts
// toward contentLength. Decoding stops at the end of src, after
// contentLength characters, or before the first character that
// is neither base64, '=' nor whitespace. That character is left
// unread in src.
//
// src must implement io.ByteScanner (for example *bufio.Reader
// or *strings.Reader), otherwise ErrUnsupported is returned.
// If the characters decoded do not form whole base64 groups,
// including when contentLength ends in the middle of one, the
// error is ErrFormat. If dst has a Flush() error method it is
// called once after a successful copy.
func CopyFromBase64(src io.Reader, contentLength int64, dst io.Writer, opts ...Option) error {
	cfg := newConfig(opts)
	if src == nil {
		return errorf(opDecode, ErrNilArgument, "nil source")
	}
	if dst == nil {
		return errorf(opDecode, ErrNilArgument, "nil destination")
	}
	bs, ok := src.(io.ByteScanner)
	if !ok {
		return errorf(opDecode, ErrUnsupported, "source %T cannot unread a character", src)
	}
	if err := checkLength(opDecode, contentLength); err != nil {
		return err
	}
	if err := checkBlockSize(opDecode, cfg.blockSize); err != nil {
		return err
	}
	length, err := resolveLength(opDecode, contentLength, src)
	if err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	p, err := planDecode(opDecode, cfg.blockSize, length)
	if err != nil {
		return err
	}
	cfg.log.Debug("decoding to writer",
		zap.Int64("length", length),
		zap.Int("in", p.in),
		zap.Int("out", p.out))

	d := &decoder{
		src:    bs,
		dst:    dst,
		length: length,
		chars:  make([]byte, p.in),
		out:    make([]byte, p.out),
	}
	defer cfg.scrub(d.chars, d.out)

	if err := d.run(); err != nil {
		return err
	}
	if f, ok := dst.(flusher); ok {
		if err := f.Flush(); err != nil {
			return newError(opDecode, ErrIO, err)
		}
	}
	cfg.log.Debug("decoded to writer", zap.Int64("consumed", d.consumed))
	return nil
}
