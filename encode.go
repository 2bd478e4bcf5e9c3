package b64stream

import (
	"errors"
	"io"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ericlagergren/b64stream/base64"
)

const opEncode = "encode"

var crlf = []byte("\r\n")

// LineBreakWriter is implemented by text destinations with their
// own notion of a line break. CopyToBase64 uses it between
// blocks instead of writing "\r\n".
type LineBreakWriter interface {
	WriteLineBreak() error
}

// flusher is implemented by buffered destinations such as
// *bufio.Writer.
type flusher interface {
	Flush() error
}

// target receives the source bytes of each iteration.
type target interface {
	// put converts chunk and emits it. When wrapping, every chunk
	// but the first is preceded by a line break.
	put(chunk []byte, first bool) error
}

// bufferTarget accumulates output in memory.
//
// When its buffer is created with the exact output size as
// capacity, each chunk is encoded directly in place and the
// buffer never grows.
type bufferTarget struct {
	buf  []byte
	wrap bool
}

func (t *bufferTarget) put(chunk []byte, first bool) error {
	t.add(chunk, first)
	return nil
}

func (t *bufferTarget) add(chunk []byte, first bool) {
	if !first && t.wrap {
		t.buf = append(t.buf, crlf...)
	}
	if t.wrap {
		t.buf = base64.AppendEncodeLines(t.buf, chunk)
	} else {
		t.buf = base64.AppendEncode(t.buf, chunk)
	}
}

// String returns the accumulated output without copying it. The
// buffer must not be used afterward.
func (t *bufferTarget) String() string {
	if len(t.buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(t.buf), len(t.buf))
}

// streamTarget writes each chunk to w as soon as it is encoded.
type streamTarget struct {
	w    io.Writer
	wrap bool
	out  []byte // scratch, sized for one full iteration
}

func (t *streamTarget) put(chunk []byte, first bool) error {
	if !first && t.wrap {
		if err := t.lineBreak(); err != nil {
			return err
		}
	}
	var n int
	if t.wrap {
		n = base64.EncodeLines(t.out, chunk)
	} else {
		n = base64.EncodedLen(len(chunk))
		base64.Encode(t.out, chunk)
	}
	_, err := t.w.Write(t.out[:n])
	return err
}

func (t *streamTarget) lineBreak() error {
	if lw, ok := t.w.(LineBreakWriter); ok {
		return lw.WriteLineBreak()
	}
	_, err := t.w.Write(crlf)
	return err
}

// readChunk fills buf from src. It reports whether src ran out
// before buf was full.
func readChunk(src io.Reader, buf []byte) (n int, eof bool, err error) {
	n, err = io.ReadFull(src, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, true, nil
	}
	return n, false, err
}

// encodeLoop feeds src to t one iteration at a time and returns
// the number of bytes consumed.
//
// Every iteration but the last is exactly len(buf) bytes, so
// chunks stay aligned to whole groups (and lines). Reads are
// clamped so that no more than length bytes are consumed.
func encodeLoop(src io.Reader, length int64, buf []byte, t target) (int64, error) {
	var consumed int64
	for first := true; ; first = false {
		want := len(buf)
		if length != LengthUnknown {
			left := length - consumed
			if left <= 0 {
				break
			}
			want = int(min(int64(want), left))
		}
		n, eof, err := readChunk(src, buf[:want])
		if err != nil {
			return consumed, newError(opEncode, ErrIO, err)
		}
		if n == 0 {
			break
		}
		consumed += int64(n)
		if err := t.put(buf[:n], first); err != nil {
			return consumed, newError(opEncode, ErrIO, err)
		}
		if eof {
			break
		}
	}
	return consumed, nil
}

// scratchLen returns the size of the source buffer for one
// iteration, which is never larger than the content.
func scratchLen(p encodePlan, length int64) int {
	if length == LengthUnknown {
		return p.in
	}
	return int(min(int64(p.in), length))
}

// ToBase64String reads contentLength bytes from src and returns
// their base64 encoding.
//
// Pass LengthUnknown to read until src is exhausted, or as much
// as src reports having. If the length is known in advance the
// result is allocated once at its exact size.
func ToBase64String(src io.Reader, contentLength int64, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	if src == nil {
		return "", errorf(opEncode, ErrNilArgument, "nil source")
	}
	if err := checkLength(opEncode, contentLength); err != nil {
		return "", err
	}
	p, err := planEncode(opEncode, cfg.blockSize, cfg.lineBreaks)
	if err != nil {
		return "", err
	}
	length, err := resolveLength(opEncode, contentLength, src)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	if length != LengthUnknown && length <= int64(cfg.blockSize) {
		return encodeOnce(cfg, src, length)
	}

	size, err := planEncodeSize(opEncode, length, cfg.lineBreaks)
	if err != nil {
		return "", err
	}
	cfg.log.Debug("encoding to string",
		zap.Int64("length", length),
		zap.Int("in", p.in),
		zap.Int("out", p.out),
		zap.Stringer("sizing", size),
		zap.Bool("lineBreaks", cfg.lineBreaks))

	buf := make([]byte, scratchLen(p, length))
	defer cfg.scrub(buf)

	t := &bufferTarget{wrap: cfg.lineBreaks}
	if size.known {
		t.buf = make([]byte, 0, size.n)
	}
	consumed, err := encodeLoop(src, length, buf, t)
	if err != nil {
		return "", err
	}
	if length != LengthUnknown && consumed < length {
		cfg.log.Debug("source exhausted early",
			zap.Int64("length", length),
			zap.Int64("consumed", consumed),
			zap.Int("chars", len(t.buf)))
	}
	return t.String(), nil
}

// encodeOnce handles contents no larger than one block with a
// single read and a single conversion.
func encodeOnce(cfg *config, src io.Reader, length int64) (string, error) {
	buf := make([]byte, length)
	defer cfg.scrub(buf)

	n, _, err := readChunk(src, buf)
	if err != nil {
		return "", newError(opEncode, ErrIO, err)
	}
	cfg.log.Debug("encoding to string in one block",
		zap.Int64("length", length),
		zap.Int("read", n),
		zap.Bool("lineBreaks", cfg.lineBreaks))

	t := &bufferTarget{wrap: cfg.lineBreaks}
	if n > 0 {
		t.add(buf[:n], true)
	}
	return t.String(), nil
}

// CopyToBase64 reads contentLength bytes from src and writes
// their base64 encoding to dst, one block at a time.
//
// Between blocks a line break is written when line breaks are
// enabled: dst.WriteLineBreak() if dst is a LineBreakWriter,
// "\r\n" otherwise. If dst has a Flush() error method it is
// called once at the end.
func CopyToBase64(src io.Reader, contentLength int64, dst io.Writer, opts ...Option) error {
	cfg := newConfig(opts)
	if src == nil {
		return errorf(opEncode, ErrNilArgument, "nil source")
	}
	if dst == nil {
		return errorf(opEncode, ErrNilArgument, "nil destination")
	}
	if err := checkLength(opEncode, contentLength); err != nil {
		return err
	}
	p, err := planEncode(opEncode, cfg.blockSize, cfg.lineBreaks)
	if err != nil {
		return err
	}
	length, err := resolveLength(opEncode, contentLength, src)
	if err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	cfg.log.Debug("encoding to writer",
		zap.Int64("length", length),
		zap.Int("in", p.in),
		zap.Int("out", p.out),
		zap.Bool("lineBreaks", cfg.lineBreaks))

	buf := make([]byte, scratchLen(p, length))
	t := &streamTarget{
		w:    dst,
		wrap: cfg.lineBreaks,
		out:  make([]byte, p.out),
	}
	defer cfg.scrub(buf, t.out)

	consumed, err := encodeLoop(src, length, buf, t)
	if err != nil {
		return err
	}
	if f, ok := dst.(flusher); ok {
		if err := f.Flush(); err != nil {
			return newError(opEncode, ErrIO, err)
		}
	}
	cfg.log.Debug("encoded to writer", zap.Int64("consumed", consumed))
	return nil
}
