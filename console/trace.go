// Copyright © 2024 The ELPS authors

package console

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrLevel = attribute.Key("console.level")
	attrArgs  = attribute.Key("console.args")
)

// startSpan starts the span of one console operation.
func (l *Logger) startSpan(op, level string, nargs int) (context.Context, trace.Span) {
	return l.tracer.Start(l.ctx, "console."+op,
		trace.WithAttributes(attrLevel.String(level), attrArgs.Int(nargs)))
}

// pkgPrefix is the function name prefix of this package.
var pkgPrefix = reflect.TypeOf((*Logger)(nil)).Elem().PkgPath() + "."

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// callerStack renders the stack of the code that called into the console,
// one frame per line, with the console's own frames removed.
func callerStack() string {
	st := errors.New("trace").(stackTracer).StackTrace()
	var lines []string
	skipping := true
	for _, f := range st {
		pc := uintptr(f) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		name := fn.Name()
		if skipping && strings.HasPrefix(name, pkgPrefix) {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("    at %s (%s:%d)", name, filepath.Base(file), line))
	}
	return strings.Join(lines, "\n")
}
