package b64stream

import (
	"math"

	"github.com/ericlagergren/b64stream/base64"
)

// crlfLen is the length of the "\r\n" line separator.
const crlfLen = 2

// maxOutput is the largest output a single buffer can hold.
const maxOutput = int64(math.MaxInt)

// encodePlan describes one encoding iteration.
type encodePlan struct {
	in  int // source bytes per iteration, a multiple of 3
	out int // characters produced by a full iteration
}

// sizing selects how a string result is assembled: grown as it
// goes when the output size is unknown, or allocated once when
// it is.
type sizing struct {
	known bool
	n     int
}

func (s sizing) String() string {
	if s.known {
		return "pre-sized"
	}
	return "growable"
}

// decodePlan describes one decoding iteration.
type decodePlan struct {
	in  int // valid characters per iteration, a multiple of 4 unless capped
	out int // bytes produced by a full iteration
}

func checkBlockSize(op string, blockSize int) error {
	if blockSize < MinBlockSize {
		return errorf(op, ErrOutOfRange, "block size %d < %d", blockSize, MinBlockSize)
	}
	return nil
}

// planEncode splits blockSize into whole base64 groups, and
// whole lines if breaks is set.
//
// With line breaks a full iteration produces whole lines only,
// so joining iterations with "\r\n" yields the same text as
// wrapping the entire output at once.
func planEncode(op string, blockSize int, breaks bool) (encodePlan, error) {
	if err := checkBlockSize(op, blockSize); err != nil {
		return encodePlan{}, err
	}
	if !breaks {
		in := blockSize / 3 * 3
		return encodePlan{in: in, out: in / 3 * 4}, nil
	}
	lines := blockSize / 3 * 4 / LineLength
	return encodePlan{
		in:  LineLength * lines / 4 * 3,
		out: (LineLength+crlfLen)*lines - crlfLen,
	}, nil
}

// encodedSize returns the exact number of characters length
// source bytes encode to.
func encodedSize(op string, length int64, wrap bool) (int, error) {
	groups := length / 3
	if length%3 != 0 {
		groups++
	}
	if groups > maxOutput/4 {
		return 0, errorf(op, ErrOutOfMemory, "%d bytes encode to more than %d characters", length, maxOutput)
	}
	raw := groups * 4
	if !wrap || raw == 0 {
		return int(raw), nil
	}
	// No break trails the last line.
	breaks := raw / LineLength
	if raw%LineLength == 0 {
		breaks--
	}
	if raw > maxOutput-breaks*crlfLen {
		return 0, errorf(op, ErrOutOfMemory, "%d bytes encode to more than %d characters", length, maxOutput)
	}
	return int(raw + breaks*crlfLen), nil
}

// planEncodeSize selects the sizing for a string result.
func planEncodeSize(op string, length int64, breaks bool) (sizing, error) {
	if length == LengthUnknown {
		return sizing{}, nil
	}
	n, err := encodedSize(op, length, breaks)
	if err != nil {
		return sizing{}, err
	}
	return sizing{known: true, n: n}, nil
}

// planDecode splits blockSize into whole base64 groups. The
// iteration never asks for more than length characters.
func planDecode(op string, blockSize int, length int64) (decodePlan, error) {
	if err := checkBlockSize(op, blockSize); err != nil {
		return decodePlan{}, err
	}
	p := decodePlan{
		in:  blockSize / 3 * 4,
		out: blockSize / 3 * 3,
	}
	if length != LengthUnknown && length < int64(p.in) {
		p.in = int(length)
		p.out = base64.DecodedLen(p.in)
	}
	return p, nil
}
