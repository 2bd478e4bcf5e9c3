package b64stream

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericlagergren/b64stream/base64"
)

func decodeString(t *testing.T, src io.Reader, length int64, opts ...Option) ([]byte, error) {
	t.Helper()
	var buf bytes.Buffer
	err := CopyFromBase64(src, length, &buf, opts...)
	return buf.Bytes(), err
}

func TestCopyFromBase64StopsAtInvalid(t *testing.T) {
	r := require.New(t)
	src := strings.NewReader("TWFu<tail>")

	got, err := decodeString(t, src, LengthUnknown)
	r.NoError(err)
	r.Equal("Man", string(got))

	c, err := src.ReadByte()
	r.NoError(err)
	r.Equal(byte('<'), c)
}

func TestCopyFromBase64LengthCutsGroup(t *testing.T) {
	r := require.New(t)

	_, err := decodeString(t, strings.NewReader("TWFuTWFuTWFu"), 10)
	r.ErrorIs(err, ErrFormat)

	var fe *FormatError
	r.True(errors.As(err, &fe))
	r.Equal(int64(0), fe.Offset)
}

func TestCopyFromBase64Whitespace(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"TWFu", "Man"},
		{"TW Fu\r\n\tTQ==", "ManM"},
		{"\r\n", ""},
		{"  TWE=  ", "Ma"},
		{"TWFu\r\nTWFu\r\n", "ManMan"},
	} {
		got, err := decodeString(t, strings.NewReader(tc.in), LengthUnknown)
		require.NoError(t, err, "%q", tc.in)
		require.Equal(t, tc.want, string(got), "%q", tc.in)
	}
}

// TestCopyFromBase64LengthCountsWhitespace checks that whitespace
// counts toward the length and that the source is left right
// after it.
func TestCopyFromBase64LengthCountsWhitespace(t *testing.T) {
	r := require.New(t)
	src := bufio.NewReader(strings.NewReader("TWFu\r\nTWFu"))

	got, err := decodeString(t, src, 6)
	r.NoError(err)
	r.Equal("Man", string(got))

	rest, err := io.ReadAll(src)
	r.NoError(err)
	r.Equal("TWFu", string(rest))
}

func TestCopyFromBase64Malformed(t *testing.T) {
	for _, tc := range []struct {
		in      string
		corrupt bool
	}{
		{"TWF", false},
		{"TWFuT", false},
		{"TQ==TWFu", true},
		{"TW=u", true},
		{"====", true},
	} {
		_, err := decodeString(t, strings.NewReader(tc.in), LengthUnknown)
		require.ErrorIs(t, err, ErrFormat, "%q", tc.in)
		require.Equal(t, tc.corrupt, errors.Is(err, base64.ErrCorrupt), "%q", tc.in)
	}
}

func TestCopyFromBase64TrimsLongLength(t *testing.T) {
	got, err := decodeString(t, strings.NewReader("TWFu"), 1000)
	require.NoError(t, err)
	require.Equal(t, "Man", string(got))
}

func TestCopyFromBase64Unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := CopyFromBase64(onlyReader{strings.NewReader("TWFu")}, LengthUnknown, &buf)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestCopyFromBase64Validation(t *testing.T) {
	r := require.New(t)
	var buf bytes.Buffer

	r.ErrorIs(CopyFromBase64(nil, LengthUnknown, &buf), ErrNilArgument)
	r.ErrorIs(CopyFromBase64(strings.NewReader("TWFu"), LengthUnknown, nil), ErrNilArgument)

	src := strings.NewReader("TWFu")
	r.ErrorIs(CopyFromBase64(src, -5, &buf), ErrOutOfRange)
	r.ErrorIs(CopyFromBase64(src, LengthUnknown, &buf, BlockSize(12)), ErrOutOfRange)
	r.Equal(4, src.Len(), "validation must not read")
	r.Zero(buf.Len())
}

func TestCopyFromBase64ZeroLength(t *testing.T) {
	r := require.New(t)
	src := strings.NewReader("TWFu")
	dst := &countingWriter{}

	r.NoError(CopyFromBase64(src, 0, dst))
	r.Equal(4, src.Len())
	r.Zero(dst.writes)
	r.Zero(dst.flushes)

	r.NoError(CopyFromBase64(strings.NewReader(""), LengthUnknown, dst))
	r.Zero(dst.writes)
}

func TestCopyFromBase64IOErrors(t *testing.T) {
	r := require.New(t)

	err := CopyFromBase64(strings.NewReader("TWFu"), LengthUnknown, errWriter{})
	r.ErrorIs(err, ErrIO)
	r.ErrorIs(err, errBoom)
	r.Contains(err.Error(), "decode")

	err = CopyFromBase64(strings.NewReader("TWFu"), LengthUnknown, &errFlusher{})
	r.ErrorIs(err, ErrIO)

	err = CopyFromBase64(bufio.NewReader(errReader{}), LengthUnknown, &bytes.Buffer{})
	r.ErrorIs(err, ErrIO)
	r.ErrorIs(err, errBoom)
}

func TestCopyFromBase64Blocks(t *testing.T) {
	data := randBytes(t, 20000)
	for _, size := range sizes {
		for _, breaks := range []bool{false, true} {
			enc := reference(data[:size], breaks)
			for _, explicit := range []bool{false, true} {
				name := fmt.Sprintf("%d/%t/%t", size, breaks, explicit)
				length := int64(LengthUnknown)
				if explicit {
					length = int64(len(enc))
				}
				// bufio.Reader cannot report its length, so the
				// decoder runs until the terminator.
				src := bufio.NewReader(strings.NewReader(enc + "."))
				dst := &countingWriter{}
				if err := CopyFromBase64(src, length, dst, BlockSize(MinBlockSize)); err != nil {
					t.Fatalf("%s: unexpected error: %v", name, err)
				}
				if !bytes.Equal(dst.Bytes(), data[:size]) {
					t.Fatalf("%s: mismatch", name)
				}
				if size > 0 && dst.flushes != 1 {
					t.Fatalf("%s: expected 1 flush, got %d", name, dst.flushes)
				}
				if c, err := src.ReadByte(); err != nil || c != '.' {
					t.Fatalf("%s: expected '.', got %q, %v", name, c, err)
				}
			}
		}
	}
}
