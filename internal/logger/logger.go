// Package logger provides the small leveled logger the pool and connection
// use for lifecycle events (dial, dial failure, poison, discard on checkin).
// Instances are caller-owned rather than a package-level singleton, since
// this is a library component meant to be embedded, not an application
// owning its own log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level lists supported log severities, ordered least to most severe.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

// Logger writes leveled lines to a single io.Writer, guarded by a mutex.
type Logger struct {
	mu     sync.Mutex
	out    *log.Logger
	level  Level
	silent bool
}

// New builds a Logger writing lines at level and above to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), level: level}
}

// Nop builds a Logger that discards everything, the default when a caller
// doesn't configure logging explicitly.
func Nop() *Logger {
	return &Logger{silent: true}
}

// Default is a console logger at Info level, used by the CLI entrypoint.
func Default() *Logger {
	return New(os.Stdout, Info)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if l == nil || l.silent || level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] %s", levelNames[level], fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, format, args...) }
