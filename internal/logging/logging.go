// Package logging configures the process-wide zap logger.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup installs a console logger writing to w at the named level as the
// global zap logger and returns it. Unknown levels fall back to info. "dev"
// enables debug output with caller annotations.
func Setup(level string, w io.Writer) *zap.SugaredLogger {
	al := zap.NewAtomicLevel()
	var opts []zap.Option
	switch strings.ToUpper(level) {
	case "DEV":
		al.SetLevel(zap.DebugLevel)
		opts = append(opts, zap.AddCaller())
	case "DEBUG":
		al.SetLevel(zap.DebugLevel)
	case "INFO":
		al.SetLevel(zap.InfoLevel)
	case "WARN":
		al.SetLevel(zap.WarnLevel)
	case "ERROR":
		al.SetLevel(zap.ErrorLevel)
	default:
		al.SetLevel(zap.InfoLevel)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), al)
	logger := zap.New(core, opts...)
	zap.ReplaceGlobals(logger)
	return logger.Sugar()
}

// BadgerLogger adapts a zap logger to badger.Logger. Badger's info chatter
// is demoted to debug.
type BadgerLogger struct {
	s *zap.SugaredLogger
}

// NewBadgerLogger wraps s, tagging every line with component=badger.
func NewBadgerLogger(s *zap.SugaredLogger) *BadgerLogger {
	return &BadgerLogger{s: s.With("component", "badger")}
}

func (l *BadgerLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Warningf(format string, args ...interface{}) {
	l.s.Warnf(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Infof(format string, args ...interface{}) {
	l.s.Debugf(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(strings.TrimSpace(format), args...)
}
