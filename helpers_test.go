package b64stream

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"golang.org/x/exp/rand"
)

var errBoom = errors.New("boom")

// onlyReader hides every capability of the wrapped reader except
// Read, so its remaining length cannot be queried.
type onlyReader struct {
	r io.Reader
}

func (r onlyReader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// countingReader is a non-queryable reader that counts calls and
// bytes.
type countingReader struct {
	r     io.Reader
	reads int
	n     int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads++
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}

// trickleReader returns at most one byte per Read.
type trickleReader struct {
	r io.Reader
}

func (r trickleReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return r.r.Read(p)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errBoom
}

// countingWriter records writes and flushes.
type countingWriter struct {
	bytes.Buffer
	writes  int
	flushes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func (w *countingWriter) Flush() error {
	w.flushes++
	return nil
}

// lineWriter is a text destination whose line break is "\n".
type lineWriter struct {
	strings.Builder
}

func (w *lineWriter) WriteLineBreak() error {
	return w.WriteByte('\n')
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errBoom
}

type errFlusher struct {
	bytes.Buffer
}

func (*errFlusher) Flush() error {
	return errBoom
}

func randBytes(t testing.TB, n int) []byte {
	t.Helper()
	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %#x", seed)
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

// reference returns the expected encoding of b.
func reference(b []byte, breaks bool) string {
	s := base64.StdEncoding.EncodeToString(b)
	if !breaks {
		return s
	}
	var sb strings.Builder
	for len(s) > LineLength {
		sb.WriteString(s[:LineLength])
		sb.WriteString("\r\n")
		s = s[LineLength:]
	}
	sb.WriteString(s)
	return sb.String()
}
