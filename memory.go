package b64stream

import "runtime"

// wipe sets every byte in x, up to its capacity, to zero.
//
//go:noinline
func wipe(x []byte) {
	// noinline and KeepAlive keep the compiler from proving the
	// stores dead and dropping them.
	x = x[:cap(x)]
	for i := range x {
		x[i] = 0
	}
	runtime.KeepAlive(x)
}
