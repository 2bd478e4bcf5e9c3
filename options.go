package b64stream

import (
	"go.uber.org/zap"

	"github.com/ericlagergren/b64stream/base64"
)

const (
	// LineLength is the number of characters per line when
	// line breaks are enabled.
	LineLength = base64.LineLength

	// MinBlockSize is the smallest accepted block size.
	MinBlockSize = 1024

	// DefaultBlockSize is the block size used unless BlockSize
	// says otherwise (1 MiB).
	DefaultBlockSize = 1 << 20

	// LengthUnknown is the content length meaning "until the
	// source is exhausted, or whatever the source says it has".
	LengthUnknown = -1
)

// config holds per-call settings.
type config struct {
	lineBreaks bool
	blockSize  int
	log        *zap.Logger
	wipe       bool
}

// Option configures a single call.
type Option func(*config)

// LineBreaks wraps encoded output at LineLength characters,
// separating lines with "\r\n". No line break follows the final
// line.
//
// It has no effect on decoding, which always skips whitespace.
//
// Default: false
func LineBreaks() Option {
	return func(c *config) {
		c.lineBreaks = true
	}
}

// BlockSize sets the approximate number of bytes converted per
// iteration. It is rounded down to whole base64 groups (and
// whole lines when wrapping), and must be at least MinBlockSize.
//
// Default: DefaultBlockSize
func BlockSize(n int) Option {
	return func(c *config) {
		c.blockSize = n
	}
}

// Logger sets the logger for this call, overriding SetLogger.
func Logger(l *zap.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// Wipe zeroes the intermediate buffers before the call returns.
//
// It is useful when converting secrets. Returned strings and
// data written to destinations are not affected.
func Wipe() Option {
	return func(c *config) {
		c.wipe = true
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		blockSize: DefaultBlockSize,
		log:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// scrub zeroes bufs if wiping is enabled.
func (c *config) scrub(bufs ...[]byte) {
	if !c.wipe {
		return
	}
	for _, b := range bufs {
		wipe(b)
	}
}
