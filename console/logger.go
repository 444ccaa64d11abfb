// Copyright © 2024 The ELPS authors

// Package console captures console calls into a document tree.
//
// A Logger owns one console session: counters, timers and the stack of
// open groups.  Each logging operation renders its arguments with the
// format package, appends the result to the innermost open group, and
// then forwards the call to the console the Logger replaced.  Mounting a
// Logger on a Table redirects code that logs through that table; unmounting
// restores the exact operations captured when the Logger was created.
package console

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/format"
	"github.com/luthersystems/gleamconsole/tree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// Log levels recorded in the data-log-level attribute of each item.
const (
	LevelLog   = "log"
	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelTrace = "trace"
)

const (
	defaultLabel = "default"
	unnamedGroup = "<Unnamed group>"
)

// Logger is a console session rendering into a document tree.  Its
// methods are safe for concurrent use; they run one at a time.  A getter
// that logs through the same Logger while its value is being rendered
// deadlocks.
type Logger struct {
	mu     sync.Mutex
	root   *dom.Node
	active *dom.Node
	counts map[string]int
	timers map[string]time.Time

	format   *format.Formatter
	table    *Table
	snapshot Table
	real     Table
	clock    clock.PassiveClock
	tracer   trace.Tracer
	ctx      context.Context
	log      hclog.Logger
	pending  errgroup.Group

	gleamSyntax bool
}

type config struct {
	table       *Table
	clock       clock.PassiveClock
	tracer      trace.Tracer
	ctx         context.Context
	log         hclog.Logger
	gleamSyntax bool
}

// Option configures a Logger.
type Option func(*config)

// WithTable sets the table the Logger forwards to and mounts on.  The
// default is Std.
func WithTable(t *Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// WithClock sets the clock used by timers.
func WithClock(clk clock.PassiveClock) Option {
	return func(c *config) {
		c.clock = clk
	}
}

// WithTracer records each console operation as a span of tracer.  The
// default tracer comes from the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithContext sets the parent context of spans and promise waits.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger for the Logger's own diagnostics.
func WithLogger(log hclog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithGleamSyntax selects Gleam literal spellings.  It is on by default.
func WithGleamSyntax(on bool) Option {
	return func(c *config) {
		c.gleamSyntax = on
	}
}

// New returns a Logger rendering into root.  The operations of its table
// are captured now; they receive every call the Logger handles and are
// what Unmount restores.
func New(root *dom.Node, opts ...Option) *Logger {
	c := &config{
		table:       Std,
		clock:       clock.RealClock{},
		ctx:         context.Background(),
		log:         hclog.NewNullLogger(),
		gleamSyntax: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.GetTracerProvider().Tracer("gleamconsole")
	}
	root.AddClass("log-container")
	l := &Logger{
		root:        root,
		active:      root,
		counts:      make(map[string]int),
		timers:      make(map[string]time.Time),
		table:       c.table,
		snapshot:    *c.table,
		real:        c.table.filled(),
		clock:       c.clock,
		tracer:      c.tracer,
		ctx:         c.ctx,
		log:         c.log,
		gleamSyntax: c.gleamSyntax,
	}
	l.format = format.New(
		format.WithGleamSyntax(c.gleamSyntax),
		format.WithScheduler(l),
		format.WithContext(c.ctx),
	)
	return l
}

// Root returns the element the Logger renders into.
func (l *Logger) Root() *dom.Node {
	return l.root
}

// Formatter returns the formatter used for arguments.  Register rules on
// it to render additional shapes.
func (l *Logger) Formatter() *format.Formatter {
	return l.format
}

// GleamSyntax reports whether Gleam spellings are in use.
func (l *Logger) GleamSyntax() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gleamSyntax
}

// SetGleamSyntax switches between Gleam and generic spellings for items
// logged from now on.
func (l *Logger) SetGleamSyntax(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gleamSyntax = on
	l.format.SetGleamSyntax(on)
}

// Sync runs fn while holding the session lock.  Front ends use it to click
// controls and expand nodes of the rendered tree.
func (l *Logger) Sync(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Go runs wait in the background as an in-flight continuation.
func (l *Logger) Go(wait func()) {
	l.pending.Go(func() error {
		wait()
		return nil
	})
}

// Post applies a document update under the session lock.
func (l *Logger) Post(update func()) {
	l.Sync(update)
}

// Settle waits for in-flight continuations started by promise controls.
// It must not be called while the session lock is held.
func (l *Logger) Settle() {
	_ = l.pending.Wait()
}

// Table returns the Logger's own operations as a table.
func (l *Logger) Table() Table {
	return Table{
		Assert:         l.Assert,
		Clear:          l.Clear,
		Count:          l.Count,
		CountReset:     l.CountReset,
		Debug:          l.Debug,
		Error:          l.Error,
		Group:          l.Group,
		GroupCollapsed: l.GroupCollapsed,
		GroupEnd:       l.GroupEnd,
		Info:           l.Info,
		Log:            l.Log,
		Time:           l.Time,
		TimeEnd:        l.TimeEnd,
		TimeLog:        l.TimeLog,
		TimeStamp:      l.TimeStamp,
		Trace:          l.Trace,
		Warn:           l.Warn,
	}
}

// Mount installs the Logger's operations in its table.  Calling Mount
// twice without Unmount in between is not supported.
func (l *Logger) Mount() {
	*l.table = l.Table()
}

// Unmount restores the operations the table held when the Logger was
// created.
func (l *Logger) Unmount() {
	*l.table = l.snapshot
}

// item renders args as one log entry of the given level.  Top-level
// strings are written as plain message text.
func (l *Logger) item(level string, args []any) {
	el := dom.Elem("div", "")
	el.SetAttr("data-log-level", level)
	for i, arg := range args {
		if i > 0 {
			el.AppendText(" ")
		}
		if s, ok := arg.(string); ok {
			el.AppendText(s)
			continue
		}
		el.Append(l.format.Format(arg, format.Normal))
	}
	l.active.Append(el)
}

// do runs fn under the session lock inside a span for op.
func (l *Logger) do(op, level string, nargs int, fn func()) {
	_, span := l.startSpan(op, level, nargs)
	defer span.End()
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

func (l *Logger) logAt(op, level string, args []any) {
	l.do(op, level, len(args), func() { l.item(level, args) })
}

// Assert logs args at error level if cond is false.
func (l *Logger) Assert(cond bool, args ...any) {
	if cond {
		return
	}
	l.logAt("assert", LevelError, args)
	l.real.Assert(cond, args...)
}

// Clear removes every item and group and returns to the root.
func (l *Logger) Clear() {
	l.do("clear", LevelLog, 0, func() {
		l.root.Empty()
		l.active = l.root
	})
	l.real.Clear()
}

// Count logs how many times it was called with label before, starting
// from zero.
func (l *Logger) Count(label string) {
	label = counterLabel(label)
	l.do("count", LevelLog, 1, func() {
		n := l.counts[label]
		l.counts[label] = n + 1
		l.item(LevelLog, []any{label + ":", n})
	})
	l.real.Count(label)
}

// CountReset sets the counter of label back to zero.
func (l *Logger) CountReset(label string) {
	label = counterLabel(label)
	l.do("countReset", LevelLog, 1, func() {
		l.counts[label] = 0
		l.item(LevelLog, []any{label + ":", 0})
	})
	l.real.CountReset(label)
}

// Debug logs args at debug level.
func (l *Logger) Debug(args ...any) {
	l.logAt("debug", LevelDebug, args)
	l.real.Debug(args...)
}

// Error logs args at error level.
func (l *Logger) Error(args ...any) {
	l.logAt("error", LevelError, args)
	l.real.Error(args...)
}

// Info logs args at info level.
func (l *Logger) Info(args ...any) {
	l.logAt("info", LevelInfo, args)
	l.real.Info(args...)
}

// Log logs args.
func (l *Logger) Log(args ...any) {
	l.logAt("log", LevelLog, args)
	l.real.Log(args...)
}

// Warn logs args at warning level.
func (l *Logger) Warn(args ...any) {
	l.logAt("warn", LevelWarn, args)
	l.real.Warn(args...)
}

// Group opens a nested group and makes it the target of later items.
func (l *Logger) Group(label string) {
	label = groupLabel(label)
	l.do("group", LevelLog, 1, func() { l.group(label, false) })
	l.real.Group(label)
}

// GroupCollapsed opens a nested group that starts out collapsed.
func (l *Logger) GroupCollapsed(label string) {
	label = groupLabel(label)
	l.do("groupCollapsed", LevelLog, 1, func() { l.group(label, true) })
	l.real.GroupCollapsed(label)
}

func (l *Logger) group(label string, collapsed bool) {
	g := dom.Elem("div", "console-group")
	if collapsed {
		g.AddClass("closed")
	}
	arrow := tree.Arrow(collapsed, func(closed bool) {
		if closed {
			g.AddClass("closed")
		} else {
			g.RemoveClass("closed")
		}
	})
	header := dom.Elem("div", "group-header", arrow, dom.Text(label))
	l.active.Append(header, g)
	l.active = g
}

// GroupEnd closes the innermost group.  At the root it does nothing.
func (l *Logger) GroupEnd() {
	l.do("groupEnd", LevelLog, 0, func() {
		if l.active != l.root && l.active.Parent != nil {
			l.active = l.active.Parent
		}
	})
	l.real.GroupEnd()
}

// Time starts a timer.  Starting a running timer logs a warning and keeps
// the original start time.
func (l *Logger) Time(label string) {
	label = counterLabel(label)
	running := false
	l.do("time", LevelLog, 1, func() {
		if _, running = l.timers[label]; running {
			l.item(LevelWarn, []any{"Timer " + label + " already exists"})
			return
		}
		l.timers[label] = l.clock.Now()
	})
	if !running {
		l.real.Time(label)
	}
}

// TimeEnd logs the elapsed time of a timer and stops it.
func (l *Logger) TimeEnd(label string) {
	label = counterLabel(label)
	l.timeLog("timeEnd", label, nil, true)
}

// TimeLog logs the elapsed time of a running timer followed by args.
func (l *Logger) TimeLog(label string, args ...any) {
	label = counterLabel(label)
	l.timeLog("timeLog", label, args, false)
}

func (l *Logger) timeLog(op, label string, args []any, end bool) {
	found := false
	l.do(op, LevelLog, len(args)+1, func() {
		var start time.Time
		start, found = l.timers[label]
		if !found {
			l.item(LevelWarn, []any{"Timer " + label + " doesn't exist"})
			return
		}
		msg := label + ": " + formatElapsed(l.clock.Since(start))
		if end {
			msg += " - timer ended"
			delete(l.timers, label)
		}
		l.item(LevelLog, append([]any{msg}, args...))
	})
	if !found {
		return
	}
	if end {
		l.real.TimeEnd(label)
	} else {
		l.real.TimeLog(label, args...)
	}
}

// TimeStamp forwards to the host console only.
func (l *Logger) TimeStamp(label string) {
	_, span := l.startSpan("timeStamp", LevelLog, 1)
	span.End()
	l.real.TimeStamp(label)
}

// Trace logs args, if any, followed by the call stack of its caller.
func (l *Logger) Trace(args ...any) {
	stack := callerStack()
	l.do("trace", LevelTrace, len(args), func() {
		if len(args) > 0 {
			l.item(LevelTrace, args)
		}
		l.item(LevelTrace, []any{stack})
	})
	l.real.Trace(args...)
}

// formatElapsed prints milliseconds, switching to seconds above one
// second.
func formatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms > 1000 {
		return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64) + "s"
	}
	return strconv.FormatInt(ms, 10) + "ms"
}

func counterLabel(label string) string {
	if label == "" {
		return defaultLabel
	}
	return label
}

func groupLabel(label string) string {
	if label == "" {
		return unnamedGroup
	}
	return label
}
