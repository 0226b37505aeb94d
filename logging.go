package pivot

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

// NewDefaultLogger logs debug and info to stdout, warnings and errors to stderr.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) line(level string, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	}
	return level + ": " + msg
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.line("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.line("ERROR", format, args...))
}

// LoggingModule installs a logger as a resource. Output defaults to
// stdout/stderr.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Output io.Writer
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	if m.Output != nil {
		cmd.AddResources(NewWriterLogger(m.Prefix, m.Debug, m.Output, m.Output))
		return
	}
	cmd.AddResources(NewDefaultLogger(m.Prefix, m.Debug))
}

// LoggerModule installs an existing logger.
type LoggerModule struct {
	Logger Logger
}

func (m LoggerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(m.Logger)
}

type nopLogger struct{}

func NewNopLogger() Logger                                 { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                    { return false }
func (n *nopLogger) SetDebug(enabled bool)                 {}
func (n *nopLogger) Debugf(format string, args ...any)     {}
func (n *nopLogger) Infof(format string, args ...any)      {}
func (n *nopLogger) Warnf(format string, args ...any)      {}
func (n *nopLogger) Errorf(format string, args ...any)     {}

// Logger returns the installed Logger resource, or a no-op logger.
// Never returns nil.
func (app *App) Logger() Logger {
	if app == nil || app.resources == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
