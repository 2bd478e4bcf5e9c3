package b64stream

import "go.uber.org/zap"

// logger is used by calls without a Logger option.
var logger = zap.NewNop()

// SetLogger sets the logger used by calls that do not pass the
// Logger option. A nil logger disables logging.
//
// It must be called before any other function in this package.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
