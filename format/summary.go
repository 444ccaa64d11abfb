// Copyright © 2024 The ELPS authors

package format

import (
	"go/token"
	"reflect"
	"strings"
	"time"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/value"
	"golang.org/x/net/html"
)

// DateLayout renders time.Time values.
const DateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

func isTime(f *Formatter, v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func formatTime(f *Formatter, v any, ctx Context) *dom.Node {
	t, ok := v.(time.Time)
	if !ok {
		t = *v.(*time.Time)
	}
	if ctx == Field {
		return dom.StyledText("tag", "Time")
	}
	return f.Expand(ctx, v, dom.Frag(
		dom.StyledText("tag", "Time"),
		dom.Text(" "),
		dom.StyledText("repr", t.Format(DateLayout)),
	))
}

func isError(f *Formatter, v any) bool {
	_, ok := v.(error)
	return ok
}

func formatError(f *Formatter, v any, ctx Context) *dom.Node {
	err := v.(error)
	name := ErrorName(err)
	if ctx == Field {
		return dom.StyledText("tag", name)
	}
	return f.Expand(ctx, v, dom.Frag(
		dom.StyledText("tag", name),
		dom.Text(" "),
		dom.StyledText("repr", err.Error()),
	))
}

// ErrorName returns the name shown for err: its ErrorName method if it
// has one, otherwise its exported type name, otherwise "Error".
func ErrorName(err error) string {
	if named, ok := err.(interface{ ErrorName() string }); ok {
		return named.ErrorName()
	}
	rt := reflect.TypeOf(err)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if name := rt.Name(); token.IsExported(name) {
		return name
	}
	return "Error"
}

func isPromise(f *Formatter, v any) bool {
	_, ok := v.(*value.Promise)
	return ok
}

// formatPromise renders a promise with an await control.  Clicking the
// control waits for the promise in the background and then replaces the
// control, and only the control, with the outcome.
func formatPromise(f *Formatter, v any, ctx Context) *dom.Node {
	p := v.(*value.Promise)
	if ctx == Field {
		return dom.StyledText("tag", "Promise")
	}
	button := dom.Button("", "await", func(target *dom.Node) {
		target.OnClick(nil)
		f.sched.Go(func() {
			res, rejected, err := p.Await(f.ctx)
			f.sched.Post(func() {
				settle(f, target, ctx, res, rejected, err)
			})
		})
	})
	return f.Expand(ctx, v, dom.Frag(dom.StyledText("tag", "Promise"), dom.Text(" "), button))
}

func settle(f *Formatter, target *dom.Node, ctx Context, res any, rejected bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			target.ReplaceWith(f.failure(value.PanicError(r), ctx))
		}
	}()
	switch {
	case err != nil:
		target.ReplaceWith(dom.StyledText("repr", "rejected: "), f.failure(err, ctx))
	case rejected:
		target.ReplaceWith(dom.StyledText("repr", "rejected: "), f.Format(res, ctx))
	default:
		target.ReplaceWith(dom.StyledText("repr", "fulfilled: "), f.Format(res, ctx))
	}
}

func isElement(f *Formatter, v any) bool {
	n, ok := v.(*html.Node)
	return ok && n != nil && n.Type == html.ElementNode
}

func formatElement(f *Formatter, v any, ctx Context) (n *dom.Node) {
	el := v.(*html.Node)
	defer func() {
		if recover() != nil {
			n = f.Expand(ctx, v, dom.StyledText("tag", "Element"))
		}
	}()
	tag := dom.StyledText("tag", strings.ToLower(el.Data))
	if ctx == Field {
		return dom.Frag(dom.Text("<"), tag, dom.Text(">"))
	}
	summary := dom.Frag(dom.Text("<"), tag)
	for _, a := range el.Attr {
		summary.Append(dom.Text(" "+a.Key+"="), dom.StyledText("str", Quote(a.Val)))
	}
	summary.Append(dom.Text(">"))
	return f.Expand(ctx, v, summary)
}
