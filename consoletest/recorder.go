// Copyright © 2024 The ELPS authors

package consoletest

import (
	"sync"

	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/tree"
)

// Call is one recorded console call.
type Call struct {
	Op   string
	Args []any
}

// Recorder is a console that records the calls it receives.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Calls returns the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the names of the recorded calls in order.
func (r *Recorder) Ops() []string {
	var ops []string
	for _, c := range r.Calls() {
		ops = append(ops, c.Op)
	}
	return ops
}

func (r *Recorder) record(op string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Args: args})
}

// Table returns a table whose operations record into r.
func (r *Recorder) Table() *console.Table {
	return &console.Table{
		Assert:         func(cond bool, args ...any) { r.record("assert", append([]any{cond}, args...)...) },
		Clear:          func() { r.record("clear") },
		Count:          func(label string) { r.record("count", label) },
		CountReset:     func(label string) { r.record("countReset", label) },
		Debug:          func(args ...any) { r.record("debug", args...) },
		Error:          func(args ...any) { r.record("error", args...) },
		Group:          func(label string) { r.record("group", label) },
		GroupCollapsed: func(label string) { r.record("groupCollapsed", label) },
		GroupEnd:       func() { r.record("groupEnd") },
		Info:           func(args ...any) { r.record("info", args...) },
		Log:            func(args ...any) { r.record("log", args...) },
		Time:           func(label string) { r.record("time", label) },
		TimeEnd:        func(label string) { r.record("timeEnd", label) },
		TimeLog:        func(label string, args ...any) { r.record("timeLog", append([]any{label}, args...)...) },
		TimeStamp:      func(label string) { r.record("timeStamp", label) },
		Trace:          func(args ...any) { r.record("trace", args...) },
		Warn:           func(args ...any) { r.record("warn", args...) },
	}
}

// Text returns the visible text of n: arrow glyphs are left out, as are
// the bodies of collapsed nodes.
func Text(n *dom.Node) string {
	var b []byte
	n.Walk(func(c *dom.Node) bool {
		if tree.IsArrow(c) || c.Hidden() {
			return false
		}
		if c.Kind == dom.TextNode {
			b = append(b, c.Data...)
		}
		return true
	})
	return string(b)
}

// Items returns the log items directly inside container.
func Items(container *dom.Node) []*dom.Node {
	var items []*dom.Node
	for _, c := range container.Children {
		if _, ok := c.Attr("data-log-level"); ok {
			items = append(items, c)
		}
	}
	return items
}

// Level returns the log level of item.
func Level(item *dom.Node) string {
	level, _ := item.Attr("data-log-level")
	return level
}
