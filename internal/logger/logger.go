// Package logger is the logging collaborator used by commands built on the
// tensor packages. The tensor core itself never logs; callers pass a Logger
// to whatever needs one.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level orders log severities.
type Level int

// Supported levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelOff
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	case LevelOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name as returned by Level.String.
func ParseLevel(s string) (Level, error) {
	for l := LevelDebug; l <= LevelOff; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return LevelOff, fmt.Errorf("unknown log level %q", s)
}

// Logger writes printf-style messages at a severity.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// Func adapts a single log(level, format, args...) function to Logger.
type Func func(level Level, format string, args ...any)

// Debugf implements Logger.
func (f Func) Debugf(format string, args ...any) { f(LevelDebug, format, args...) }

// Infof implements Logger.
func (f Func) Infof(format string, args ...any) { f(LevelInfo, format, args...) }

// Errorf implements Logger.
func (f Func) Errorf(format string, args ...any) { f(LevelError, format, args...) }

// New returns a Logger that writes messages at or above min to stderr in
// zap's console format.
func New(min Level) Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return Wrap(zap.New(core), min)
}

// Wrap adapts z to Logger, dropping messages below min.
func Wrap(z *zap.Logger, min Level) Logger {
	s := z.Sugar()
	return Func(func(level Level, format string, args ...any) {
		if level < min {
			return
		}
		switch level {
		case LevelDebug:
			s.Debugf(format, args...)
		case LevelInfo:
			s.Infof(format, args...)
		case LevelError:
			s.Errorf(format, args...)
		}
	})
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Func(func(Level, string, ...any) {})
}
