// Copyright © 2024 The ELPS authors

package value

import "fmt"

// GleamError is the error a compiled Gleam program raises for todo,
// panic, and failed let assert expressions.
type GleamError struct {
	// Kind is the Gleam error kind, e.g. "todo", "panic" or "let_assert".
	Kind    string
	Message string
	Module  string
	Line    int
	Fn      string
	// Value is the offending value for let_assert errors.
	Value any
}

func (e *GleamError) Error() string {
	if e.Module == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s.%s:%d)", e.Message, e.Module, e.Fn, e.Line)
}

// ErrorName returns the name the console shows for e.
func (e *GleamError) ErrorName() string {
	return "GleamError"
}
