// Copyright © 2024 The ELPS authors

package format

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/signature"
	"github.com/luthersystems/gleamconsole/value"
)

// Long strings in Normal context are cut in the middle once they reach
// TruncateAt runes.
const (
	TruncateAt     = 200
	TruncatePrefix = 170
	TruncateSuffix = 25
)

func isNil(f *Formatter, v any) bool {
	if value.IsUnit(v) {
		return true
	}
	return isNilRef(v)
}

func isNilRef(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func formatNil(f *Formatter, v any, ctx Context) *dom.Node {
	switch {
	case f.gleam:
		return dom.StyledText("undef", "Nil")
	case isNilRef(v):
		return dom.StyledText("undef", "null")
	default:
		return dom.StyledText("undef", "undefined")
	}
}

func isBool(f *Formatter, v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Bool
}

func formatBool(f *Formatter, v any, ctx Context) *dom.Node {
	b := reflect.ValueOf(v).Bool()
	if f.gleam {
		if b {
			return dom.StyledText("bool", "True")
		}
		return dom.StyledText("bool", "False")
	}
	return dom.StyledText("bool", strconv.FormatBool(b))
}

func isNumber(f *Formatter, v any) bool {
	switch v.(type) {
	case *big.Int:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func formatNumber(f *Formatter, v any, ctx Context) *dom.Node {
	if n, ok := v.(*big.Int); ok {
		return dom.StyledText("num", n.String()+"n")
	}
	return dom.StyledText("num", numberText(reflect.ValueOf(v)))
}

func numberText(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	bits := 64
	if rv.Kind() == reflect.Float32 {
		bits = 32
	}
	return floatText(rv.Float(), bits)
}

// floatText spells x the way the browser console does.
func floatText(x float64, bits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	abs := math.Abs(x)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(x, 'f', -1, bits)
	}
	return strconv.FormatFloat(x, 'g', -1, bits)
}

func isString(f *Formatter, v any) bool {
	if _, ok := v.(value.Symbol); ok {
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.String
}

func formatString(f *Formatter, v any, ctx Context) *dom.Node {
	if sym, ok := v.(value.Symbol); ok {
		return dom.StyledText("sym", "Symbol("+sym.Description+")")
	}
	return stringNode(reflect.ValueOf(v).String(), ctx)
}

func stringNode(s string, ctx Context) *dom.Node {
	quoted := Quote(s)
	if ctx != Normal || utf8.RuneCountInString(s) < TruncateAt {
		return dom.StyledText("str", quoted)
	}
	runes := []rune(quoted)
	elem := dom.Styled("str")
	more := dom.Elem("a", "clear", dom.Text("…"))
	more.SetAttr("href", "javascript:void()")
	more.OnClick(func(*dom.Node) { elem.SetText(quoted) })
	elem.Append(
		dom.Text(string(runes[:TruncatePrefix])),
		more,
		dom.Text(string(runes[len(runes)-TruncateSuffix:])),
	)
	return elem
}

// Quote returns s as a JSON string literal.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

var functionKeywordRegexp = regexp.MustCompile(`^function\s*`)

func isCallable(f *Formatter, v any) bool {
	if _, ok := v.(value.Callable); ok {
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.Func
}

func formatCallable(f *Formatter, v any, ctx Context) *dom.Node {
	name, sig := callableParts(v)
	if ctx == Field {
		if name == "" {
			return dom.Frag(dom.StyledText("fn", "f()"))
		}
		return dom.Frag(dom.StyledText("fn", "f"), dom.Text(" "+name+"()"))
	}
	return f.Expand(ctx, v, dom.Frag(dom.StyledText("fn", "f "), dom.Text(sig)))
}

// callableParts returns the name of a callable and its signature with any
// leading function keyword removed.
func callableParts(v any) (name, sig string) {
	if c, ok := v.(value.Callable); ok {
		sig = signature.Shorten(c.Source())
		return c.Name(), functionKeywordRegexp.ReplaceAllString(sig, "")
	}
	rv := reflect.ValueOf(v)
	name = goFuncName(rv)
	return name, name + strings.TrimPrefix(rv.Type().String(), "func")
}

// callableSource returns the text shown by the open view of a callable.
func callableSource(v any) (string, bool) {
	if c, ok := v.(value.Callable); ok {
		return c.Source(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return "", false
	}
	name := goFuncName(rv)
	if name == "" {
		return rv.Type().String(), true
	}
	return "func " + name + strings.TrimPrefix(rv.Type().String(), "func"), true
}

var closureSuffixRegexp = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// goFuncName returns the short name of a Go function, or "" for closures
// and nil functions.
func goFuncName(rv reflect.Value) string {
	if rv.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	full := fn.Name()
	if closureSuffixRegexp.MatchString(full) {
		return ""
	}
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	return full
}

// isBoxed matches non-nil pointers to primitive values.
func isBoxed(f *Formatter, v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	switch rv.Elem().Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func formatBoxed(f *Formatter, v any, ctx Context) *dom.Node {
	elem := reflect.ValueOf(v).Elem()
	var inner *dom.Node
	switch elem.Kind() {
	case reflect.Bool:
		inner = formatBool(f, elem.Bool(), ctx)
	case reflect.String:
		inner = stringNode(elem.String(), ctx)
	default:
		inner = dom.StyledText("num", numberText(elem))
	}
	return f.Expand(ctx, v, inner)
}
