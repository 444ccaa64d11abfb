// Copyright © 2024 The ELPS authors

package format

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/inspect"
	"github.com/luthersystems/gleamconsole/value"
)

// limit picks the entry budget for ctx.
func limit(ctx Context, normal, nested, field int) int {
	switch ctx {
	case Normal:
		return normal
	case NestedValue:
		return nested
	default:
		return field
	}
}

func isList(f *Formatter, v any) bool {
	_, ok := v.(value.List)
	return ok
}

// formatList walks a cons list without recursion.  Elements past the
// budget are replaced by a single ellipsis.
func formatList(f *Formatter, v any, ctx Context) *dom.Node {
	max := limit(ctx, 40, 10, 0)
	out := dom.Frag(dom.Text("["))
	shown := 0
	l := v.(value.List)
	for {
		cell, ok := l.(*value.NonEmpty)
		if !ok || cell == nil {
			break
		}
		if shown == max {
			if shown > 0 {
				out.AppendText(", ")
			}
			out.Append(dom.StyledText("clear", "…"), dom.Text("]"))
			return f.Expand(ctx, v, out)
		}
		if shown > 0 {
			out.AppendText(", ")
		}
		out.Append(f.Format(cell.Head, Field))
		shown++
		l = cell.Tail
	}
	out.AppendText("]")
	return f.Expand(ctx, v, out)
}

func isTuple(f *Formatter, v any) bool {
	if _, ok := v.(value.Tuple); ok {
		return true
	}
	return f.gleam && isSlice(v)
}

func isSlice(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func formatTuple(f *Formatter, v any, ctx Context) *dom.Node {
	return sequence(f, v, ctx, "#(", ")")
}

func isArray(f *Formatter, v any) bool {
	return isSlice(v)
}

func formatArray(f *Formatter, v any, ctx Context) *dom.Node {
	return sequence(f, v, ctx, "[", "]")
}

// sequence renders an indexed collection between open and close.
func sequence(f *Formatter, v any, ctx Context, open, close string) *dom.Node {
	rv := reflect.ValueOf(v)
	n := rv.Len()
	if ctx == Field {
		return dom.Frag(dom.Text(open), dom.StyledText("clear", fmt.Sprintf("…%d items", n)), dom.Text(close))
	}
	shown := limit(ctx, 40, 10, 10)
	out := dom.Frag(dom.Text(open))
	for i := 0; i < n && i < shown; i++ {
		if i > 0 {
			out.AppendText(", ")
		}
		out.Append(f.Format(rv.Index(i).Interface(), Field))
	}
	if shown < n {
		out.Append(dom.StyledText("clear", fmt.Sprintf(" …%d more items", n-shown)))
	}
	out.AppendText(close)
	return f.Expand(ctx, v, out)
}

func isCustomType(f *Formatter, v any) bool {
	return f.gleam && value.IsCustomType(v)
}

// formatCustomType renders a variant as Name(a, b) or Name(key: v).  A
// top-level variant with a single shown field renders it one level deeper,
// in NestedValue; inside that level it falls back to Field so that cyclic
// values stay bounded.
func formatCustomType(f *Formatter, v any, ctx Context) *dom.Node {
	rec, _ := value.RecordOf(v)
	name := rec.TypeName()
	if ctx == Field {
		return dom.Frag(dom.StyledText("tag", name), dom.Text("(…)"))
	}
	fields := rec.Fields()
	max := limit(ctx, 9, 3, 0)
	complete := true
	if len(fields) > max {
		fields = fields[:max]
		complete = false
	}
	if len(fields) == 0 && complete {
		return f.Expand(ctx, v, dom.StyledText("tag", name))
	}
	next := Field
	if len(fields) == 1 && ctx == Normal {
		next = NestedValue
	}
	out := dom.Frag(dom.StyledText("tag", name), dom.Text("("))
	positional := 0
	for i, fld := range fields {
		if i > 0 {
			out.AppendText(", ")
		}
		if fld.Label == strconv.Itoa(positional) {
			positional++
		} else {
			out.Append(FieldName(fld.Label), dom.Text(": "))
		}
		out.Append(f.Format(fld.Value, next))
	}
	if !complete {
		if len(fields) > 0 {
			out.AppendText(", ")
		}
		out.Append(dom.StyledText("clear", "…"))
	}
	out.AppendText(")")
	return f.Expand(ctx, v, out)
}

// formatObject is the fallback for values no other rule matched: objects,
// structs and maps show their enumerated entries.
func formatObject(f *Formatter, v any, ctx Context) *dom.Node {
	name, anonymous := objectName(v)
	if !enumerable(v) {
		return f.Expand(ctx, v, dom.StyledText("tag", name))
	}
	if ctx == Field {
		if anonymous {
			return dom.Text("{…}")
		}
		return dom.StyledText("tag", name)
	}
	entries := dom.Frag()
	count := 0
	complete := inspect.Enumerate(v, func(k string, fv any) {
		if count > 0 {
			entries.AppendText(", ")
		}
		count++
		entries.Append(FieldName(k), dom.Text(": "), f.Format(fv, Field))
	}, limit(ctx, 9, 3, 0))
	if !complete {
		entries.Append(dom.StyledText("clear", " …"))
	}
	out := dom.Frag()
	if !anonymous {
		out.Append(dom.StyledText("tag", name), dom.Text(" "))
	}
	if count == 0 && complete {
		out.AppendText("{}")
	} else {
		out.Append(dom.Text("{ "), entries, dom.Text(" }"))
	}
	return f.Expand(ctx, v, out)
}

// enumerable reports whether the fallback can list entries of v.
func enumerable(v any) bool {
	if _, ok := v.(*value.Object); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map:
		return true
	}
	return false
}

// objectName returns the display name of v and whether v is an anonymous
// object (a plain object, a map or an unnamed struct).
func objectName(v any) (string, bool) {
	if o, ok := v.(*value.Object); ok {
		return o.Name(), o.IsPlain()
	}
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch {
	case rt.Kind() == reflect.Map:
		return "Object", true
	case rt.Name() == "":
		if rt.Kind() == reflect.Struct {
			return "Object", true
		}
		return rt.String(), false
	}
	return rt.Name(), false
}

// TypeName returns the name the console shows for the type of v.
func TypeName(v any) string {
	switch v := v.(type) {
	case nil:
		return "Nil"
	case *value.Object:
		return v.Name()
	case value.Record:
		return v.TypeName()
	case error:
		return ErrorName(v)
	}
	if rec, ok := value.RecordOf(v); ok {
		return rec.TypeName()
	}
	name, _ := objectName(v)
	return name
}

// isCompound reports whether v gets an expandable row in an open view.
func isCompound(v any) bool {
	if v == nil || isNilRef(v) {
		return false
	}
	switch v.(type) {
	case value.Unit, value.Symbol, string, bool, *big.Int:
		return false
	}
	if _, ok := v.(error); ok {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Bool, reflect.String:
		return false
	}
	return true
}

func builtinRules() []Rule {
	return []Rule{
		{Name: "nil", Match: isNil, Format: formatNil},
		{Name: "bool", Match: isBool, Format: formatBool},
		{Name: "number", Match: isNumber, Format: formatNumber},
		{Name: "string", Match: isString, Format: formatString},
		{Name: "callable", Match: isCallable, Format: formatCallable},
		{Name: "boxed", Match: isBoxed, Format: formatBoxed},
		{Name: "time", Match: isTime, Format: formatTime},
		{Name: "error", Match: isError, Format: formatError},
		{Name: "promise", Match: isPromise, Format: formatPromise},
		{Name: "element", Match: isElement, Format: formatElement},
		{Name: "list", Match: isList, Format: formatList},
		{Name: "tuple", Match: isTuple, Format: formatTuple},
		{Name: "custom", Match: isCustomType, Format: formatCustomType},
		{Name: "array", Match: isArray, Format: formatArray},
		{Name: "object", Match: func(*Formatter, any) bool { return true }, Format: formatObject},
	}
}
