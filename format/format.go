// Copyright © 2024 The ELPS authors

// Package format renders runtime values as dom fragments for the console.
//
// A Formatter holds an ordered chain of rules.  Each rule pairs a
// predicate with a formatter for one shape of value; the first matching
// rule renders the value.  New shapes are supported by registering rules,
// which take priority over the built-in ones.
//
// Every rendering takes a Context.  Normal is a top-level console
// argument and gets the most detail, wrapped in an expandable tree node
// when the value is compound.  Field is a member of an enclosing compound
// and is kept to a single short summary.  NestedValue is the value of a row
// in an opened node and sits between the two.
package format

import (
	"context"
	"regexp"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/inspect"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/luthersystems/gleamconsole/value"
)

// Context selects how much detail a rendering shows.
type Context uint8

// Rendering contexts.
const (
	Normal Context = iota
	Field
	NestedValue
)

func (c Context) String() string {
	switch c {
	case Normal:
		return "normal"
	case Field:
		return "field"
	case NestedValue:
		return "nested-value"
	default:
		return "invalid"
	}
}

// Rule renders the values matched by its predicate.
type Rule struct {
	Name   string
	Match  func(f *Formatter, v any) bool
	Format func(f *Formatter, v any, ctx Context) *dom.Node
}

// Scheduler runs the asynchronous continuation of promise controls.  Go
// starts wait in the background.  Post applies a document update produced
// by a continuation; it must serialise updates with any other access to
// the rendered tree.
type Scheduler interface {
	Go(wait func())
	Post(update func())
}

// Formatter renders values.  A Formatter is not safe for concurrent use;
// the console serialises all rendering under its own lock.
type Formatter struct {
	gleam bool
	rules []Rule
	sched Scheduler
	ctx   context.Context
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithGleamSyntax selects Gleam literal spellings (True, False, Nil, #(..))
// and custom type recognition.  It is on by default.
func WithGleamSyntax(on bool) Option {
	return func(f *Formatter) {
		f.gleam = on
	}
}

// WithScheduler sets the scheduler used by promise controls.
func WithScheduler(s Scheduler) Option {
	return func(f *Formatter) {
		f.sched = s
	}
}

// WithContext sets the context that bounds promise waits.
func WithContext(ctx context.Context) Option {
	return func(f *Formatter) {
		f.ctx = ctx
	}
}

// New returns a Formatter with the built-in rules.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		gleam: true,
		sched: goScheduler{},
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.rules = builtinRules()
	return f
}

// GleamSyntax reports whether Gleam spellings are in use.
func (f *Formatter) GleamSyntax() bool {
	return f.gleam
}

// SetGleamSyntax switches between Gleam and generic spellings.  Values
// already rendered keep their spelling.
func (f *Formatter) SetGleamSyntax(on bool) {
	f.gleam = on
}

// Register adds r ahead of all existing rules.
func (f *Formatter) Register(r Rule) {
	f.rules = append([]Rule{r}, f.rules...)
}

// Rules returns the names of the rules in priority order.
func (f *Formatter) Rules() []string {
	names := make([]string, len(f.rules))
	for i, r := range f.rules {
		names[i] = r.Name
	}
	return names
}

// Format renders v in context ctx.  Format never panics: a rule that
// panics is replaced by a summary of the panic.
func (f *Formatter) Format(v any, ctx Context) (n *dom.Node) {
	defer func() {
		if r := recover(); r != nil {
			n = f.failure(value.PanicError(r), ctx)
		}
	}()
	for _, r := range f.rules {
		if r.Match(f, v) {
			return r.Format(f, v, ctx)
		}
	}
	return formatObject(f, v, ctx)
}

// failure renders err without going through the rule chain again.
func (f *Formatter) failure(err error, ctx Context) (n *dom.Node) {
	defer func() {
		if recover() != nil {
			n = dom.StyledText("tag", "Error")
		}
	}()
	return formatError(f, err, ctx)
}

// Expand wraps closed in an expandable node when ctx is Normal.
func (f *Formatter) Expand(ctx Context, v any, closed *dom.Node) *dom.Node {
	if ctx != Normal {
		return closed
	}
	return f.Expandable(v, closed).Elem
}

// Expandable returns a tree node for v showing closed and opening onto
// f.Open(v).
func (f *Formatter) Expandable(v any, closed *dom.Node) *tree.Node {
	return tree.New(v, closed, func() *dom.Node { return f.Open(v) })
}

// Open renders the open view of v.  A callable shows its complete source.
// Any other value shows one row per enumerated field, followed by a
// collapsed row for its delegation parent if it has one.
func (f *Formatter) Open(v any) *dom.Node {
	if src, ok := callableSource(v); ok {
		return dom.Elem("div", "object", dom.Text(src))
	}
	view := dom.Elem("div", "object")
	inspect.Enumerate(v, func(k string, fv any) {
		row := dom.Frag(FieldName(k), dom.Text(": "), f.Format(fv, NestedValue))
		if isCompound(fv) {
			view.Append(f.Expandable(fv, row).Elem)
		} else {
			view.Append(dom.Div(row))
		}
	}, inspect.Unlimited)
	if proto, ok := inspect.Prototype(v); ok {
		title := dom.Frag(
			dom.StyledText("clear", "[[Prototype]]"),
			dom.Text(": "),
			dom.StyledText("tag", TypeName(proto)),
		)
		view.Append(f.Expandable(proto, title).Elem)
	}
	return view
}

var fieldNameRegexp = regexp.MustCompile(`^[\w_\d]+$`)

// FieldName renders an entry key: identifier-like keys as field names,
// anything else as a quoted string.
func FieldName(k string) *dom.Node {
	if fieldNameRegexp.MatchString(k) {
		return dom.StyledText("field", k)
	}
	return dom.StyledText("str", Quote(k))
}

type goScheduler struct{}

func (goScheduler) Go(wait func())     { go wait() }
func (goScheduler) Post(update func()) { update() }
