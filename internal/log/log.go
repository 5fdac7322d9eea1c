// Package log is a thin facade over logrus, in the shape of the teacher's
// own pkg/log: call sites use Infof/Debugf/Warningf against a package-level
// logger, and the backend (format, level, output) is configured once at
// startup by cmd/schedcore rather than by each call site.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel sets the minimum level emitted by the package logger. debug
// enables Debugf call sites; anything else leaves them silent.
func SetLevel(debug bool) {
	if debug {
		std.SetLevel(logrus.DebugLevel)
		return
	}
	std.SetLevel(logrus.InfoLevel)
}

// SetOutput redirects the package logger, e.g. to a file descriptor handed
// in by -log-fd the way the teacher's runsc/cli wires -log-fd into pkg/log.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetJSON switches between the teacher's "text" and "json" log formats.
func SetJSON(json bool) {
	if json {
		std.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warningf(format string, args ...any) {
	std.Warningf(format, args...)
}

// WithField returns an entry pre-populated with a structured key, for call
// sites that want to attach a pid/tid/chan without building the format
// string by hand.
func WithField(key string, value any) *logrus.Entry {
	return std.WithField(key, value)
}

func init() {
	std.SetOutput(os.Stderr)
}
