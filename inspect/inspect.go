// Copyright © 2024 The ELPS authors

// Package inspect enumerates the fields of arbitrary values without ever
// letting a failing read escape.  Reads that panic or that return an error
// yield the error itself as the field's value.
package inspect

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/luthersystems/gleamconsole/value"
)

// Unlimited disables the entry budget of Enumerate.
const Unlimited = -1

// FieldsKey is the key of the entry standing in for the fields of a custom
// type whose Fields method failed.
const FieldsKey = "[[Fields]]"

// Visitor receives one enumerated entry.
type Visitor func(key string, v any)

// Enumerate calls visit for every own enumerable field of v and then for
// every inherited accessor found along v's delegation chain.  When limit is
// not Unlimited at most limit entries are visited; Enumerate returns false
// if entries were left unvisited because of the budget.
func Enumerate(v any, visit Visitor, limit int) bool {
	e := &enumerator{visit: visit, limit: limit}
	return e.value(v)
}

type enumerator struct {
	visit Visitor
	limit int
	count int
}

// emit visits one entry.  It returns false, without reading the entry,
// once the budget is spent.
func (e *enumerator) emit(key string, read func() (any, error)) bool {
	if e.limit != Unlimited && e.count >= e.limit {
		return false
	}
	e.count++
	e.visit(key, safeRead(read))
	return true
}

func safeRead(read func() (any, error)) (v any) {
	defer func() {
		if r := recover(); r != nil {
			v = value.PanicError(r)
		}
	}()
	x, err := read()
	if err != nil {
		return err
	}
	return x
}

func (e *enumerator) value(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *value.Object:
		if v == nil {
			return true
		}
		return e.object(v)
	case *value.Custom:
		if v == nil {
			return true
		}
		return e.record(v)
	}
	if rec, ok := value.RecordOf(v); ok {
		return e.record(rec)
	}
	return e.reflect(reflect.ValueOf(v))
}

// record visits the fields of a custom type.  A Fields method that panics
// yields a single FieldsKey entry holding the panic.
func (e *enumerator) record(rec value.Record) bool {
	fields, err := recordFields(rec)
	if err != nil {
		return e.emit(FieldsKey, func() (any, error) { return nil, err })
	}
	return e.fields(fields)
}

func recordFields(rec value.Record) (fields []value.Field, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = value.PanicError(r)
		}
	}()
	return rec.Fields(), nil
}

func (e *enumerator) object(o *value.Object) bool {
	for _, p := range o.Properties() {
		if p.Hidden {
			continue
		}
		p := p
		if !e.emit(p.Key, func() (any, error) { return o.Read(p) }) {
			return false
		}
	}
	seen := map[*value.Object]bool{o: true}
	for proto := o.Proto; proto != nil && proto != value.BaseObject && !seen[proto]; proto = proto.Proto {
		seen[proto] = true
		for _, p := range proto.Properties() {
			if !p.IsAccessor() || p.Hidden {
				continue
			}
			if _, shadowed := o.Lookup(p.Key); shadowed {
				continue
			}
			p := p
			if !e.emit(p.Key, func() (any, error) { return o.Read(p) }) {
				return false
			}
		}
	}
	return true
}

func (e *enumerator) fields(fields []value.Field) bool {
	for _, f := range fields {
		f := f
		if !e.emit(f.Label, func() (any, error) { return f.Value, nil }) {
			return false
		}
	}
	return true
}

func (e *enumerator) reflect(rv reflect.Value) bool {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return e.structFields(rv)
	case reflect.Map:
		return e.mapEntries(rv)
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		for i := 0; i < n; i++ {
			i := i
			if !e.emit(strconv.Itoa(i), func() (any, error) { return interfaceOf(rv.Index(i)), nil }) {
				return false
			}
		}
	}
	return true
}

// structFields treats exported fields as own fields and the exported
// fields of embedded structs, at any depth, as inherited ones.  Reading an
// inherited field through a nil embedded pointer panics; safeRead turns
// that into the field's value.
func (e *enumerator) structFields(rv reflect.Value) bool {
	own, inherited := structLayout(rv.Type())
	for _, f := range own {
		f := f
		if !e.emit(f.name, func() (any, error) { return interfaceOf(rv.FieldByIndex(f.index)), nil }) {
			return false
		}
	}
	for _, f := range inherited {
		f := f
		if !e.emit(f.name, func() (any, error) { return interfaceOf(rv.FieldByIndex(f.index)), nil }) {
			return false
		}
	}
	return true
}

type fieldPath struct {
	name  string
	index []int
}

var customTypeType = reflect.TypeOf(value.CustomType{})

func structLayout(rt reflect.Type) (own, inherited []fieldPath) {
	names := make(map[string]bool)
	var embedded []fieldPath
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous {
			if sf.Type != customTypeType {
				embedded = append(embedded, fieldPath{name: sf.Name, index: []int{i}})
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		names[sf.Name] = true
		own = append(own, fieldPath{name: sf.Name, index: []int{i}})
	}
	seen := map[reflect.Type]bool{rt: true}
	for len(embedded) > 0 {
		var next []fieldPath
		for _, emb := range embedded {
			et := rt.FieldByIndex(emb.index).Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() != reflect.Struct || seen[et] {
				continue
			}
			seen[et] = true
			for i := 0; i < et.NumField(); i++ {
				sf := et.Field(i)
				index := append(append([]int(nil), emb.index...), i)
				if sf.Anonymous {
					if sf.Type != customTypeType {
						next = append(next, fieldPath{name: sf.Name, index: index})
					}
					continue
				}
				if !sf.IsExported() || names[sf.Name] {
					continue
				}
				names[sf.Name] = true
				inherited = append(inherited, fieldPath{name: sf.Name, index: index})
			}
		}
		embedded = next
	}
	return own, inherited
}

func (e *enumerator) mapEntries(rv reflect.Value) bool {
	keys := rv.MapKeys()
	labels := make([]string, len(keys))
	order := make([]int, len(keys))
	for i, k := range keys {
		labels[i] = fmt.Sprint(interfaceOf(k))
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return labels[order[a]] < labels[order[b]] })
	for _, i := range order {
		k := keys[i]
		if !e.emit(labels[i], func() (any, error) { return interfaceOf(rv.MapIndex(k)), nil }) {
			return false
		}
	}
	return true
}

func interfaceOf(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	if rv.CanInterface() {
		return rv.Interface()
	}
	// Fields promoted through unexported embedded structs are read-only.
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprintf("<%s>", rv.Type())
}

// Prototype returns the delegation parent of v, if it has one worth
// showing: the Proto of a *value.Object other than value.BaseObject, or
// the first non-nil embedded struct of a Go struct.
func Prototype(v any) (any, bool) {
	if o, ok := v.(*value.Object); ok {
		if o == nil || o.Proto == nil || o.Proto == value.BaseObject {
			return nil, false
		}
		return o.Proto, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.Anonymous || sf.Type == customTypeType {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		if !fv.CanInterface() {
			continue
		}
		return fv.Interface(), true
	}
	return nil, false
}
