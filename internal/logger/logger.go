// Package logger defines the small structured-logging surface every other
// package depends on, so the concrete backend (go.uber.org/zap) stays
// swappable behind this interface and test doubles need not import zap at
// all.
package logger

type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Fatalf(template string, args ...interface{})
	Fatal(args ...interface{})
	Sync() error
}
