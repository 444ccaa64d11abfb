// Copyright © 2024 The ELPS authors

package console

import (
	"github.com/hashicorp/go-hclog"
)

// Table is a set of console operations.  Code logs through a Table; a
// Logger mounted on the table captures those calls and renders them.
//
// Labels default to "default" for counters and timers and to
// "<Unnamed group>" for groups when empty.
type Table struct {
	Assert         func(cond bool, args ...any)
	Clear          func()
	Count          func(label string)
	CountReset     func(label string)
	Debug          func(args ...any)
	Error          func(args ...any)
	Group          func(label string)
	GroupCollapsed func(label string)
	GroupEnd       func()
	Info           func(args ...any)
	Log            func(args ...any)
	Time           func(label string)
	TimeEnd        func(label string)
	TimeLog        func(label string, args ...any)
	TimeStamp      func(label string)
	Trace          func(args ...any)
	Warn           func(args ...any)
}

// Std is the table behind the package-level functions.  Until a Logger is
// mounted on it, it writes to the default hclog logger.
var Std = NewHostConsole(hclog.Default()).Table()

// filled returns a copy of t with nil operations replaced by no-ops.
func (t Table) filled() Table {
	if t.Assert == nil {
		t.Assert = func(bool, ...any) {}
	}
	if t.Clear == nil {
		t.Clear = func() {}
	}
	if t.Count == nil {
		t.Count = func(string) {}
	}
	if t.CountReset == nil {
		t.CountReset = func(string) {}
	}
	if t.Debug == nil {
		t.Debug = func(...any) {}
	}
	if t.Error == nil {
		t.Error = func(...any) {}
	}
	if t.Group == nil {
		t.Group = func(string) {}
	}
	if t.GroupCollapsed == nil {
		t.GroupCollapsed = func(string) {}
	}
	if t.GroupEnd == nil {
		t.GroupEnd = func() {}
	}
	if t.Info == nil {
		t.Info = func(...any) {}
	}
	if t.Log == nil {
		t.Log = func(...any) {}
	}
	if t.Time == nil {
		t.Time = func(string) {}
	}
	if t.TimeEnd == nil {
		t.TimeEnd = func(string) {}
	}
	if t.TimeLog == nil {
		t.TimeLog = func(string, ...any) {}
	}
	if t.TimeStamp == nil {
		t.TimeStamp = func(string) {}
	}
	if t.Trace == nil {
		t.Trace = func(...any) {}
	}
	if t.Warn == nil {
		t.Warn = func(...any) {}
	}
	return t
}

// Assert logs args as an error if cond is false.
func Assert(cond bool, args ...any) { Std.Assert(cond, args...) }

// Clear clears the console.
func Clear() { Std.Clear() }

// Count logs the number of times Count was called with label.
func Count(label string) { Std.Count(label) }

// CountReset resets the counter of label.
func CountReset(label string) { Std.CountReset(label) }

// Debug logs args at debug level.
func Debug(args ...any) { Std.Debug(args...) }

// Error logs args at error level.
func Error(args ...any) { Std.Error(args...) }

// Group starts a nested group.
func Group(label string) { Std.Group(label) }

// GroupCollapsed starts a nested group that is initially collapsed.
func GroupCollapsed(label string) { Std.GroupCollapsed(label) }

// GroupEnd leaves the current group.
func GroupEnd() { Std.GroupEnd() }

// Info logs args at info level.
func Info(args ...any) { Std.Info(args...) }

// Log logs args.
func Log(args ...any) { Std.Log(args...) }

// Time starts a timer.
func Time(label string) { Std.Time(label) }

// TimeEnd logs the elapsed time of a timer and stops it.
func TimeEnd(label string) { Std.TimeEnd(label) }

// TimeLog logs the elapsed time of a running timer.
func TimeLog(label string, args ...any) { Std.TimeLog(label, args...) }

// TimeStamp marks a point in time for the host console.
func TimeStamp(label string) { Std.TimeStamp(label) }

// Trace logs args followed by the current call stack.
func Trace(args ...any) { Std.Trace(args...) }

// Warn logs args at warning level.
func Warn(args ...any) { Std.Warn(args...) }
