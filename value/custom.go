// Copyright © 2024 The ELPS authors

package value

import (
	"reflect"
	"strconv"
)

// CustomType marks a Go struct as a Gleam custom type variant.  Embed it
// in the variant struct:
//
//	type Ok struct {
//		value.CustomType
//		Value any `gleam:"0"`
//	}
//
// Exported fields become the variant's fields.  A `gleam` struct tag
// renames a field; a numeric tag makes it positional and "-" hides it.
type CustomType struct{}

func (CustomType) gleamCustomType() {}

type customTyper interface {
	gleamCustomType()
}

// Field is one field of a custom type value.  Positional fields have a
// numeric Label equal to their index.
type Field struct {
	Label string
	Value any
}

// Record is implemented by values that describe themselves as a Gleam
// custom type variant.
type Record interface {
	TypeName() string
	Fields() []Field
}

// Custom is a dynamically built custom type variant.
type Custom struct {
	Name   string
	Values []Field
}

var _ Record = (*Custom)(nil)

// NewCustom returns a variant called name with the given fields.
func NewCustom(name string, fields ...Field) *Custom {
	return &Custom{Name: name, Values: fields}
}

// Positional returns fields labelled by their index.
func Positional(values ...any) []Field {
	fields := make([]Field, len(values))
	for i, v := range values {
		fields[i] = Field{Label: strconv.Itoa(i), Value: v}
	}
	return fields
}

func (c *Custom) TypeName() string { return c.Name }
func (c *Custom) Fields() []Field  { return c.Values }

var customTypeType = reflect.TypeOf(CustomType{})

// IsCustomType reports whether v is a custom type variant, either because
// it implements Record or because its struct embeds CustomType.
func IsCustomType(v any) bool {
	switch v.(type) {
	case Record, customTyper:
		return true
	}
	return false
}

// RecordOf returns a Record view of a custom type value.  The boolean is
// false for values that are not custom types.
func RecordOf(v any) (Record, bool) {
	if r, ok := v.(Record); ok {
		return r, true
	}
	if _, ok := v.(customTyper); !ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return &Custom{Name: rv.Type().Elem().Name()}, true
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return &Custom{Name: rv.Type().Name()}, true
	}
	return structRecord(rv), true
}

func structRecord(rv reflect.Value) *Custom {
	rt := rv.Type()
	c := &Custom{Name: rt.Name()}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Type == customTypeType || !sf.IsExported() {
			continue
		}
		label := sf.Name
		if tag, ok := sf.Tag.Lookup("gleam"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				label = tag
			}
		}
		c.Values = append(c.Values, Field{Label: label, Value: rv.Field(i).Interface()})
	}
	return c
}
