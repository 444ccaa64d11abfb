// Copyright © 2024 The ELPS authors

package value

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okVariant struct {
	CustomType
	Value any `gleam:"0"`
}

type person struct {
	CustomType
	Name   string
	Age    int `gleam:"age"`
	secret string
	Skip   bool `gleam:"-"`
}

func TestListOf(t *testing.T) {
	l := ListOf(1, 2, 3)
	items, complete := ToSlice(l, -1)
	assert.True(t, complete)
	assert.Equal(t, []any{1, 2, 3}, items)

	items, complete = ToSlice(l, 2)
	assert.False(t, complete)
	assert.Equal(t, []any{1, 2}, items)

	items, complete = ToSlice(ListOf(), 0)
	assert.True(t, complete)
	assert.Empty(t, items)

	l = Prepend(0, l)
	items, _ = ToSlice(l, -1)
	assert.Equal(t, []any{0, 1, 2, 3}, items)
}

func TestRecordOf(t *testing.T) {
	r, ok := RecordOf(okVariant{Value: 42})
	require.True(t, ok)
	assert.Equal(t, "okVariant", r.TypeName())
	assert.Equal(t, []Field{{Label: "0", Value: 42}}, r.Fields())

	r, ok = RecordOf(&person{Name: "Lucy", Age: 8, secret: "x"})
	require.True(t, ok)
	assert.Equal(t, "person", r.TypeName())
	assert.Equal(t, []Field{{Label: "Name", Value: "Lucy"}, {Label: "age", Value: 8}}, r.Fields())

	custom := NewCustom("Error", Positional("nope")...)
	r, ok = RecordOf(custom)
	require.True(t, ok)
	assert.Same(t, custom, r)

	_, ok = RecordOf(struct{ A int }{1})
	assert.False(t, ok)
	assert.True(t, IsCustomType(okVariant{}))
	assert.False(t, IsCustomType(42))
}

func TestObjectGetters(t *testing.T) {
	base := NewObject("Shape").
		DefineGetter("area", func(this *Object) (any, error) {
			w, _ := this.Get("w")
			h, _ := this.Get("h")
			return w.(int) * h.(int), nil
		}).
		DefineGetter("boom", func(*Object) (any, error) {
			panic(errors.New("boom"))
		})
	rect := base.Extend("Rect").Set("w", 2).Set("h", 3)

	area, err := rect.Get("area")
	require.NoError(t, err)
	assert.Equal(t, 6, area)

	_, err = rect.Get("boom")
	assert.EqualError(t, err, "boom")

	missing, err := rect.Get("nothing")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	rect.Set("w", 5)
	assert.Equal(t, 2, rect.Len())
	p, ok := rect.Lookup("w")
	require.True(t, ok)
	assert.Equal(t, 5, p.Value)
	assert.Equal(t, "Rect", rect.Name())
	assert.Equal(t, "Object", (&Object{}).Name())
}

func TestObjectGetCycle(t *testing.T) {
	a := NewObject("A")
	b := a.Extend("B")
	a.Proto = b
	v, err := b.Get("missing")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestPromise(t *testing.T) {
	p := NewPromise()
	assert.False(t, p.Settled())
	p.Resolve(1)
	p.Reject("ignored")
	v, rejected, err := p.Await(context.Background())
	require.NoError(t, err)
	assert.False(t, rejected)
	assert.Equal(t, 1, v)

	v, rejected, err = Rejected("bad").Await(context.Background())
	require.NoError(t, err)
	assert.True(t, rejected)
	assert.Equal(t, "bad", v)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err = NewPromise().Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPromiseGo(t *testing.T) {
	v, rejected, err := Go(func() (any, error) { return "done", nil }).Await(context.Background())
	require.NoError(t, err)
	assert.False(t, rejected)
	assert.Equal(t, "done", v)

	v, rejected, err = Go(func() (any, error) { panic("oops") }).Await(context.Background())
	require.NoError(t, err)
	assert.True(t, rejected)
	assert.EqualError(t, v.(error), "oops")
}

func TestGleamError(t *testing.T) {
	e := &GleamError{Kind: "todo", Message: "not implemented", Module: "app", Fn: "main", Line: 3}
	assert.Equal(t, "not implemented (app.main:3)", e.Error())
	assert.Equal(t, "GleamError", e.ErrorName())
	assert.True(t, IsUnit(nil))
	assert.True(t, IsUnit(Nil))
	assert.False(t, IsUnit(0))
}
