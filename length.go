package b64stream

import "io"

// lener is implemented by sources that know how many units they
// have left, such as *bytes.Reader and *strings.Reader.
type lener interface {
	Len() int
}

// remaining reports how many units src has left, if it can tell
// without consuming anything.
//
// A seeker whose Seek fails (pipes, sockets, terminals) cannot
// tell. Failing to restore the position after a successful query
// is an error, since the source is then somewhere unexpected.
func remaining(src any) (n int64, ok bool, err error) {
	switch s := src.(type) {
	case lener:
		return int64(s.Len()), true, nil
	case io.Seeker:
		cur, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, false, nil
		}
		end, err := s.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, false, nil
		}
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return 0, false, err
		}
		return max(end-cur, 0), true, nil
	}
	return 0, false, nil
}

// checkLength validates a caller-supplied content length.
func checkLength(op string, requested int64) error {
	if requested < LengthUnknown {
		return errorf(op, ErrOutOfRange, "content length %d < %d", requested, LengthUnknown)
	}
	return nil
}

// resolveLength negotiates requested against what src reports.
//
// The result is LengthUnknown only if requested is and src
// cannot tell. A known result never exceeds what src has left.
// Zero means there is nothing to do.
func resolveLength(op string, requested int64, src any) (int64, error) {
	if err := checkLength(op, requested); err != nil {
		return 0, err
	}
	n, ok, err := remaining(src)
	if err != nil {
		return 0, newError(op, ErrIO, err)
	}
	switch {
	case !ok:
		return requested, nil
	case requested == LengthUnknown:
		return n, nil
	default:
		return min(requested, n), nil
	}
}
