// Copyright © 2024 The ELPS authors

package value

// Callable is a function value that can report its own source text.
type Callable interface {
	Name() string
	// Source returns the complete definition, body included.
	Source() string
}

// Func is a compiled function together with its source text.
type Func struct {
	FuncName string
	Src      string
	Impl     func(args ...any) any
}

var _ Callable = (*Func)(nil)

// NewFunc returns a function named name with the given source text.
func NewFunc(name, src string, impl func(args ...any) any) *Func {
	return &Func{FuncName: name, Src: src, Impl: impl}
}

func (f *Func) Name() string   { return f.FuncName }
func (f *Func) Source() string { return f.Src }

// Call invokes the function.  Calling a Func without an implementation
// returns Nil.
func (f *Func) Call(args ...any) any {
	if f.Impl == nil {
		return Nil
	}
	return f.Impl(args...)
}
