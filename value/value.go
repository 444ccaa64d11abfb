// Copyright © 2024 The ELPS authors

// Package value models the runtime values produced by compiled Gleam
// programs as they reach the console: cons lists, tuples, custom types,
// dynamic objects with accessors and delegation parents, callables that
// carry their source text, promises, and Gleam runtime errors.
//
// Plain Go values (numbers, strings, slices, maps, structs, errors,
// time.Time) are accepted by the console as well and need no wrapping.
package value

// Unit is the type of Nil, the Gleam unit value.
type Unit struct{}

// Nil is the Gleam unit value.  A nil interface is treated the same way.
var Nil = Unit{}

// Symbol is an opaque host symbol with an optional description.
type Symbol struct {
	Description string
}

// Tuple is a fixed-size Gleam tuple.
type Tuple []any

// IsUnit reports whether v is the unit value (Nil or an untyped nil).
func IsUnit(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Unit)
	return ok
}
