// Package log provides leveled, structured logging for gtos-lite, in the
// style of the upstream gtos client: key/value pairs, a caller frame on
// warnings and above, and colorized output when stderr is a terminal.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Lvl is a logging level.
type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	case LvlTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

var levelColor = map[Lvl]string{
	LvlCrit:  "\x1b[35m", // magenta
	LvlError: "\x1b[31m", // red
	LvlWarn:  "\x1b[33m", // yellow
	LvlInfo:  "\x1b[32m", // green
	LvlDebug: "\x1b[36m", // cyan
	LvlTrace: "\x1b[90m", // gray
}

const colorReset = "\x1b[0m"

// Record is one emitted log line.
type Record struct {
	Time  time.Time
	Lvl   Lvl
	Msg   string
	Ctx   []interface{}
	Call  stack.Call
}

// Logger emits Records carrying a fixed name and set of context fields.
type Logger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
	New(ctx ...interface{}) Logger
}

type logger struct {
	name string
	ctx  []interface{}
}

var (
	mu       sync.Mutex
	out      io.Writer = colorable.NewColorable(os.Stderr)
	useColor           = isatty.IsTerminal(os.Stderr.Fd())
	minLvl             = LvlInfo
)

// SetLevel sets the process-wide minimum level that gets written.
func SetLevel(l Lvl) {
	mu.Lock()
	defer mu.Unlock()
	minLvl = l
}

// SetOutput redirects where log lines are written; used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	useColor = false
}

// Root returns the unnamed, context-free root logger.
func Root() Logger { return &logger{} }

// New returns a logger with the given static context appended to every record.
func New(ctx ...interface{}) Logger { return &logger{ctx: ctx} }

func (l *logger) New(ctx ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{name: l.name, ctx: merged}
}

func (l *logger) write(lvl Lvl, msg string, ctx []interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if lvl > minLvl {
		return
	}
	all := make([]interface{}, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)

	var call stack.Call
	if lvl <= LvlWarn {
		call = stack.Caller(2)
	}

	ts := time.Now().Format("2006-01-02T15:04:05.000")
	line := fmt.Sprintf("[%s] %-5s %s", ts, lvl, msg)
	for i := 0; i+1 < len(all); i += 2 {
		line += fmt.Sprintf(" %v=%v", all[i], all[i+1])
	}
	if call.Frame().Function != "" {
		line += fmt.Sprintf(" caller=%+v", call)
	}
	if useColor {
		fmt.Fprintln(out, levelColor[lvl]+line+colorReset)
	} else {
		fmt.Fprintln(out, line)
	}
	if lvl == LvlCrit {
		os.Exit(1)
	}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LvlCrit, msg, ctx) }

// Package-level convenience functions logging through Root().
func Trace(msg string, ctx ...interface{}) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { Root().Crit(msg, ctx...) }
