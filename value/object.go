// Copyright © 2024 The ELPS authors

package value

import "fmt"

// Getter computes an accessor property for the receiver it is read from.
// Getters may fail by returning an error or by panicking.
type Getter func(this *Object) (any, error)

// Property is a data or accessor property of an Object.
type Property struct {
	Key   string
	Value any
	// Get is non-nil for accessor properties.
	Get Getter
	// Hidden properties are not enumerable.
	Hidden bool
}

// IsAccessor reports whether p is computed by a getter.
func (p Property) IsAccessor() bool {
	return p.Get != nil
}

// Object is a dynamic host object: an ordered set of own properties and an
// optional delegation parent (Proto).  Objects are what the runtime hands
// over for class instances, records decoded from JSON, and host values
// that have no better Go representation.
type Object struct {
	// Class is the constructor name shown by the console.  An empty Class
	// denotes a plain object.
	Class string
	// Proto is the delegation parent.  BaseObject terminates every chain
	// built by NewObject.
	Proto *Object

	props []Property
	index map[string]int
}

// BaseObject is the root of delegation chains.  It has no properties of
// its own that the console ever shows.
var BaseObject = &Object{Class: "Object"}

// NewObject returns an empty object of the given class delegating to
// BaseObject.
func NewObject(class string) *Object {
	return &Object{Class: class, Proto: BaseObject}
}

// Extend returns an empty object of the given class delegating to o.
func (o *Object) Extend(class string) *Object {
	return &Object{Class: class, Proto: o}
}

// Name returns the display name of o's class.
func (o *Object) Name() string {
	if o.Class == "" {
		return "Object"
	}
	return o.Class
}

// IsPlain reports whether o is a plain object without a class name.
func (o *Object) IsPlain() bool {
	return o.Class == ""
}

// Set defines or replaces a data property and returns o.
func (o *Object) Set(key string, v any) *Object {
	return o.define(Property{Key: key, Value: v})
}

// SetHidden defines a non-enumerable data property and returns o.
func (o *Object) SetHidden(key string, v any) *Object {
	return o.define(Property{Key: key, Value: v, Hidden: true})
}

// DefineGetter defines an accessor property and returns o.
func (o *Object) DefineGetter(key string, get Getter) *Object {
	return o.define(Property{Key: key, Get: get})
}

func (o *Object) define(p Property) *Object {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[p.Key]; ok {
		o.props[i] = p
		return o
	}
	o.index[p.Key] = len(o.props)
	o.props = append(o.props, p)
	return o
}

// Properties returns o's own properties in definition order.
func (o *Object) Properties() []Property {
	return o.props
}

// Len returns the number of own properties.
func (o *Object) Len() int {
	return len(o.props)
}

// Lookup returns the own property named key.
func (o *Object) Lookup(key string) (Property, bool) {
	i, ok := o.index[key]
	if !ok {
		return Property{}, false
	}
	return o.props[i], true
}

// Get reads key from o, following the delegation chain.  Accessors are
// evaluated against o.  A panicking getter is reported as an error.
func (o *Object) Get(key string) (v any, err error) {
	seen := make(map[*Object]bool)
	for cur := o; cur != nil && !seen[cur]; cur = cur.Proto {
		seen[cur] = true
		p, ok := cur.Lookup(key)
		if !ok {
			continue
		}
		return o.Read(p)
	}
	return nil, nil
}

// Read returns the value of p as seen from receiver o.  Panics raised by
// an accessor are recovered and returned as errors.
func (o *Object) Read(p Property) (v any, err error) {
	if p.Get == nil {
		return p.Value, nil
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, PanicError(r)
		}
	}()
	return p.Get(o)
}

// PanicError converts a recovered panic value into an error.
func PanicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
