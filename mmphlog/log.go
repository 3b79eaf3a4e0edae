// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package mmphlog is a small leveled, colorized logger for the
// construction and query tools: a CLI build or a long-running server
// wants "what is this doing right now", not a structured event bus,
// so one global logger with per-level terminal coloring is enough.
package mmphlog

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Lvl is a logging level, ordered from most to least severe.
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
		return "ERRO"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DBUG"
	case LvlTrace:
		return "TRCE"
	default:
		return "UNKN"
	}
}

var levelColor = map[Lvl]*color.Color{
	LvlCrit:  color.New(color.FgMagenta, color.Bold),
	LvlError: color.New(color.FgRed),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
	LvlTrace: color.New(color.FgWhite),
}

// Logger is the interface every component takes a dependency on,
// rather than the concrete *logger type, so tests can substitute a
// no-op or a recording implementation.
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
	ctx []interface{}
	h   *handler
}

type handler struct {
	mu       sync.Mutex
	w        io.Writer
	color    bool
	lvl      int32 // atomic, holds Lvl
	callsite bool
}

// New returns a root Logger writing to os.Stderr, colorized when
// os.Stderr is a terminal, at LvlInfo.
func New() Logger {
	return NewWithWriter(colorableStderr())
}

// NewWithWriter returns a root Logger writing to w. Color is enabled
// only when w is recognizably a terminal (colorableStderr/Stdout
// already wrap the file descriptor for Windows ANSI translation).
func NewWithWriter(w io.Writer) Logger {
	h := &handler{w: w, color: isTerminalWriter(w)}
	atomic.StoreInt32(&h.lvl, int32(LvlInfo))
	return &logger{h: h}
}

func colorableStderr() io.Writer { return colorable.NewColorableStderr() }
func colorableStdout() io.Writer { return colorable.NewColorableStdout() }

func isTerminalWriter(w io.Writer) bool {
	type fdWriter interface {
		Fd() uintptr
	}
	f, ok := w.(fdWriter)
	return ok && isatty.IsTerminal(f.Fd())
}

// root is the process-wide default Logger, overridable via SetRoot.
var root Logger = New()

// SetRoot replaces the process-wide default Logger.
func SetRoot(l Logger) {
	if l != nil {
		root = l
	}
}

// Root returns the process-wide default Logger.
func Root() Logger { return root }

// SetLevel sets the minimum level l emits at. Messages below this
// level are dropped before formatting.
func SetLevel(l Logger, lvl Lvl) {
	if lg, ok := l.(*logger); ok {
		atomic.StoreInt32(&lg.h.lvl, int32(lvl))
	}
}

// EnableCallSite turns on "file:line" suffixes for every message.
func EnableCallSite(l Logger, on bool) {
	if lg, ok := l.(*logger); ok {
		lg.h.callsite = on
	}
}

func (l *logger) New(ctx ...interface{}) Logger {
	child := make([]interface{}, 0, len(l.ctx)+len(ctx))
	child = append(child, l.ctx...)
	child = append(child, ctx...)
	return &logger{ctx: child, h: l.h}
}

func (l *logger) write(lvl Lvl, msg string, ctx []interface{}) {
	if lvl > Lvl(atomic.LoadInt32(&l.h.lvl)) {
		return
	}
	all := make([]interface{}, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)

	l.h.mu.Lock()
	defer l.h.mu.Unlock()
	fmt.Fprint(l.h.w, format(lvl, msg, all, l.h.color, l.h.callsite))
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LvlTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LvlDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LvlInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LvlWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LvlError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LvlCrit, msg, ctx) }

// format renders one record as "LVL[timestamp] msg key=val key=val",
// optionally with a colorized level tag and a trailing call site.
func format(lvl Lvl, msg string, ctx []interface{}, useColor bool, callsite bool) string {
	ts := time.Now().Format("01-02|15:04:05.000")
	tag := lvl.String()
	if useColor {
		if c, ok := levelColor[lvl]; ok {
			tag = c.Sprint(tag)
		}
	}

	out := fmt.Sprintf("%s[%s] %s", tag, ts, msg)
	for i := 0; i+1 < len(ctx); i += 2 {
		out += fmt.Sprintf(" %v=%v", ctx[i], ctx[i+1])
	}
	if len(ctx)%2 == 1 {
		out += fmt.Sprintf(" %v=%s", ctx[len(ctx)-1], "MISSING")
	}
	if callsite {
		c := stack.Caller(3)
		out += fmt.Sprintf(" (%+v)", c)
	}
	return out + "\n"
}

// Discard is a Logger that drops every message, useful as a default
// for library code that should be silent unless a caller opts in.
var Discard Logger = &discardLogger{}

type discardLogger struct{}

func (discardLogger) Trace(string, ...interface{}) {}
func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (discardLogger) Crit(string, ...interface{})  {}
func (d discardLogger) New(...interface{}) Logger  { return d }
