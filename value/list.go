// Copyright © 2024 The ELPS authors

package value

// List is a Gleam cons list.  A list is either Empty or a *NonEmpty cell
// whose Tail is another List.
type List interface {
	isList()
}

// Empty terminates a list.
type Empty struct{}

// NonEmpty is a cons cell.
type NonEmpty struct {
	Head any
	Tail List
}

func (Empty) isList()     {}
func (*NonEmpty) isList() {}

// ListOf builds a list holding items in order.
func ListOf(items ...any) List {
	var l List = Empty{}
	for i := len(items) - 1; i >= 0; i-- {
		l = &NonEmpty{Head: items[i], Tail: l}
	}
	return l
}

// Prepend returns a new cell with head in front of l.
func Prepend(head any, l List) List {
	if l == nil {
		l = Empty{}
	}
	return &NonEmpty{Head: head, Tail: l}
}

// ToSlice collects at most max elements of l (all elements when max < 0).
// The second result is false if elements remained uncollected.
func ToSlice(l List, max int) ([]any, bool) {
	var items []any
	for {
		cell, ok := l.(*NonEmpty)
		if !ok || cell == nil {
			return items, true
		}
		if max >= 0 && len(items) == max {
			return items, false
		}
		items = append(items, cell.Head)
		l = cell.Tail
	}
}
