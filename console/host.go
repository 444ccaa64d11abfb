// Copyright © 2024 The ELPS authors

package console

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"k8s.io/utils/clock"
)

// HostConsole is a plain console writing to an hclog logger.  It is the
// console a Logger forwards to, playing the part of the platform console
// in a browser.  Groups become named sub-loggers.
type HostConsole struct {
	mu     sync.Mutex
	stack  []hclog.Logger
	counts map[string]int
	timers map[string]time.Time
	clock  clock.PassiveClock
}

// NewHostConsole returns a console writing to log.
func NewHostConsole(log hclog.Logger) *HostConsole {
	return &HostConsole{
		stack:  []hclog.Logger{log},
		counts: make(map[string]int),
		timers: make(map[string]time.Time),
		clock:  clock.RealClock{},
	}
}

// SetClock replaces the clock used by timers.
func (h *HostConsole) SetClock(c clock.PassiveClock) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clock = c
}

// Table returns the operations of h.
func (h *HostConsole) Table() *Table {
	return &Table{
		Assert:         h.Assert,
		Clear:          h.Clear,
		Count:          h.Count,
		CountReset:     h.CountReset,
		Debug:          h.Debug,
		Error:          h.Error,
		Group:          h.Group,
		GroupCollapsed: h.GroupCollapsed,
		GroupEnd:       h.GroupEnd,
		Info:           h.Info,
		Log:            h.Log,
		Time:           h.Time,
		TimeEnd:        h.TimeEnd,
		TimeLog:        h.TimeLog,
		TimeStamp:      h.TimeStamp,
		Trace:          h.Trace,
		Warn:           h.Warn,
	}
}

func (h *HostConsole) current() hclog.Logger {
	return h.stack[len(h.stack)-1]
}

func (h *HostConsole) emit(level hclog.Level, args []any) {
	h.mu.Lock()
	log := h.current()
	h.mu.Unlock()
	log.Log(level, message(args))
}

// message joins args the way the platform console does.
func message(args []any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

func (h *HostConsole) Assert(cond bool, args ...any) {
	if cond {
		return
	}
	h.emit(hclog.Error, append([]any{"Assertion failed:"}, args...))
}

func (h *HostConsole) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = h.stack[:1]
}

func (h *HostConsole) Count(label string) {
	label = counterLabel(label)
	h.mu.Lock()
	h.counts[label]++
	n := h.counts[label]
	h.mu.Unlock()
	h.emit(hclog.Info, []any{label + ": " + strconv.Itoa(n)})
}

func (h *HostConsole) CountReset(label string) {
	label = counterLabel(label)
	h.mu.Lock()
	delete(h.counts, label)
	h.mu.Unlock()
}

func (h *HostConsole) Debug(args ...any) { h.emit(hclog.Debug, args) }
func (h *HostConsole) Error(args ...any) { h.emit(hclog.Error, args) }
func (h *HostConsole) Info(args ...any)  { h.emit(hclog.Info, args) }
func (h *HostConsole) Log(args ...any)   { h.emit(hclog.Info, args) }
func (h *HostConsole) Trace(args ...any) { h.emit(hclog.Trace, args) }
func (h *HostConsole) Warn(args ...any)  { h.emit(hclog.Warn, args) }

func (h *HostConsole) Group(label string) {
	label = groupLabel(label)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, h.current().Named(label))
}

func (h *HostConsole) GroupCollapsed(label string) {
	h.Group(label)
}

func (h *HostConsole) GroupEnd() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
}

func (h *HostConsole) Time(label string) {
	label = counterLabel(label)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.timers[label]; !ok {
		h.timers[label] = h.clock.Now()
	}
}

func (h *HostConsole) TimeEnd(label string) {
	label = counterLabel(label)
	h.mu.Lock()
	start, ok := h.timers[label]
	delete(h.timers, label)
	elapsed := h.clock.Since(start)
	h.mu.Unlock()
	if ok {
		h.emit(hclog.Info, []any{label + ": " + formatElapsed(elapsed) + " - timer ended"})
	}
}

func (h *HostConsole) TimeLog(label string, args ...any) {
	label = counterLabel(label)
	h.mu.Lock()
	start, ok := h.timers[label]
	elapsed := h.clock.Since(start)
	h.mu.Unlock()
	if ok {
		h.emit(hclog.Info, append([]any{label + ": " + formatElapsed(elapsed)}, args...))
	}
}

func (h *HostConsole) TimeStamp(label string) {
	h.mu.Lock()
	now := h.clock.Now()
	h.mu.Unlock()
	h.emit(hclog.Debug, []any{"timestamp", label, now.Format(time.RFC3339Nano)})
}
