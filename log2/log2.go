// Package log2 is leveled logger for teller.
// Level may change concurrently, optional error hook lets telemetry see every
// logged error. Methods are safe on nil *Log, which discards everything.
package log2

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync/atomic"
	"testing"
)

const (
	LInteractiveFlags int = log.Ltime | log.Lmicroseconds | log.Lshortfile
	// systemd journal adds timestamp
	LServiceFlags int = log.Lshortfile
	LTestFlags    int = log.Lmicroseconds | log.Lshortfile
)

type Level int32

const (
	LError Level = iota
	LWarning
	LInfo
	LDebug
	LAll Level = math.MaxInt32
)

var levelPrefix = map[Level]string{
	LError:   "error: ",
	LWarning: "warning: ",
	LDebug:   "debug: ",
}

type ErrorFunc func(error)

type Log struct {
	l       *log.Logger
	level   atomic.Int32
	onError atomic.Pointer[ErrorFunc]
	// fatal replaces exit in tests
	fatal func(args ...interface{})
}

func NewStderr(level Level) *Log { return NewWriter(os.Stderr, level) }

// NewWriter returns nil for io.Discard.
func NewWriter(w io.Writer, level Level) *Log {
	if w == io.Discard {
		return nil
	}
	lg := &Log{l: log.New(w, "", LInteractiveFlags)}
	lg.level.Store(int32(level))
	return lg
}

type testWriter struct{ t testing.TB }

func (tw testWriter) Write(b []byte) (int, error) {
	tw.t.Log(string(b))
	return len(b), nil
}

// NewTest logs via t.Log, Fatal fails test instead of exit.
func NewTest(t testing.TB, level Level) *Log {
	lg := NewWriter(testWriter{t}, level)
	lg.fatal = t.Fatal
	lg.SetFlags(LTestFlags)
	return lg
}

// Clone shares writer, flags and error hook with other level.
func (lg *Log) Clone(level Level) *Log {
	if lg == nil {
		return nil
	}
	c := NewWriter(lg.l.Writer(), level)
	c.l.SetFlags(lg.l.Flags())
	c.l.SetPrefix(lg.l.Prefix())
	c.fatal = lg.fatal
	c.onError.Store(lg.onError.Load())
	return c
}

func (lg *Log) SetErrorFunc(f ErrorFunc) {
	if lg != nil {
		lg.onError.Store(&f)
	}
}

func (lg *Log) SetLevel(level Level) {
	if lg != nil {
		lg.level.Store(int32(level))
	}
}

func (lg *Log) SetFlags(flags int) {
	if lg != nil {
		lg.l.SetFlags(flags)
	}
}

func (lg *Log) Enabled(level Level) bool {
	return lg != nil && lg.level.Load() >= int32(level)
}

// output depth points Lshortfile at caller of exported method
func (lg *Log) output(level Level, s string) {
	if lg.Enabled(level) {
		_ = lg.l.Output(3, levelPrefix[level]+s)
	}
}

func (lg *Log) Debugf(format string, args ...interface{}) {
	lg.output(LDebug, fmt.Sprintf(format, args...))
}
func (lg *Log) Info(args ...interface{}) { lg.output(LInfo, fmt.Sprint(args...)) }
func (lg *Log) Infof(format string, args ...interface{}) {
	lg.output(LInfo, fmt.Sprintf(format, args...))
}
func (lg *Log) Warning(args ...interface{}) { lg.output(LWarning, fmt.Sprint(args...)) }
func (lg *Log) Warningf(format string, args ...interface{}) {
	lg.output(LWarning, fmt.Sprintf(format, args...))
}

// paho mqtt.Logger
func (lg *Log) Printf(format string, args ...interface{}) {
	lg.output(LInfo, fmt.Sprintf(format, args...))
}
func (lg *Log) Println(args ...interface{}) { lg.output(LInfo, fmt.Sprint(args...)) }

// Error logs err and passes it to error hook.
func (lg *Log) Error(err error) {
	if err == nil {
		return
	}
	lg.output(LError, err.Error())
	lg.hook(err)
}

// Errorf logs message and passes it to error hook as error.
func (lg *Log) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	lg.output(LError, err.Error())
	lg.hook(err)
}

func (lg *Log) hook(err error) {
	if lg == nil {
		return
	}
	if f := lg.onError.Load(); f != nil && *f != nil {
		(*f)(err)
	}
}

func (lg *Log) Fatal(args ...interface{}) {
	if lg != nil && lg.fatal != nil {
		lg.fatal(args...)
		return
	}
	lg.output(LError, "fatal: "+fmt.Sprint(args...))
	os.Exit(1)
}
