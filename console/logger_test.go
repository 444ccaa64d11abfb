// Copyright © 2024 The ELPS authors

package console_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/consoletest"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/luthersystems/gleamconsole/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newLogger(t *testing.T, opts ...console.Option) (*console.Logger, *consoletest.Recorder) {
	rec := &consoletest.Recorder{}
	opts = append([]console.Option{
		console.WithTable(rec.Table()),
		console.WithLogger(consoletest.HCLog(t)),
	}, opts...)
	return console.New(dom.Div(), opts...), rec
}

func texts(items []*dom.Node) []string {
	var out []string
	for _, it := range items {
		out = append(out, consoletest.Text(it))
	}
	return out
}

func TestLogRendersItems(t *testing.T) {
	l, rec := newLogger(t)
	l.Log("answer:", 42, value.ListOf(1, 2))
	l.Warn("careful")
	l.Error(errors.New("boom"))
	l.Info(true)
	l.Debug(value.Nil)

	items := consoletest.Items(l.Root())
	require.Len(t, items, 5)
	assert.Equal(t, []string{"answer: 42 [1, 2]", "careful", "Error boom", "True", "Nil"}, texts(items))
	var levels []string
	for _, it := range items {
		levels = append(levels, consoletest.Level(it))
	}
	assert.Equal(t, []string{"log", "warn", "error", "info", "debug"}, levels)
	assert.Equal(t, []string{"log", "warn", "error", "info", "debug"}, rec.Ops())
	assert.True(t, l.Root().HasClass("log-container"))

	list := tree.Of(items[0].Children[len(items[0].Children)-1])
	require.NotNil(t, list)
	assert.Equal(t, tree.Unbuilt, list.State())
}

func TestAssert(t *testing.T) {
	l, rec := newLogger(t)
	l.Assert(true, "hidden")
	l.Assert(false, "shown")
	items := consoletest.Items(l.Root())
	require.Len(t, items, 1)
	assert.Equal(t, "shown", consoletest.Text(items[0]))
	assert.Equal(t, console.LevelError, consoletest.Level(items[0]))
	assert.Equal(t, []consoletest.Call{{Op: "assert", Args: []any{false, "shown"}}}, rec.Calls())
}

func TestCount(t *testing.T) {
	l, rec := newLogger(t)
	for i := 0; i < 4; i++ {
		l.Count("x")
	}
	l.CountReset("x")
	l.Count("x")
	l.Count("")

	assert.Equal(t, []string{"x: 0", "x: 1", "x: 2", "x: 3", "x: 0", "x: 0", "default: 0"},
		texts(consoletest.Items(l.Root())))
	assert.Equal(t, []string{"count", "count", "count", "count", "countReset", "count", "count"}, rec.Ops())
}

func TestTimers(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	l, rec := newLogger(t, console.WithClock(clk))

	l.Time("t")
	clk.SetTime(clk.Now().Add(250 * time.Millisecond))
	l.TimeLog("t", "halfway")
	l.Time("t")
	clk.SetTime(clk.Now().Add(1250 * time.Millisecond))
	l.TimeEnd("t")
	l.TimeEnd("t")
	l.TimeLog("t")

	items := consoletest.Items(l.Root())
	assert.Equal(t, []string{
		"t: 250ms halfway",
		"Timer t already exists",
		"t: 1.5s - timer ended",
		"Timer t doesn't exist",
		"Timer t doesn't exist",
	}, texts(items))
	var levels []string
	for _, it := range items {
		levels = append(levels, consoletest.Level(it))
	}
	assert.Equal(t, []string{"log", "warn", "log", "warn", "warn"}, levels)
	assert.Equal(t, []string{"time", "timeLog", "timeEnd"}, rec.Ops())
}

func TestDefaultTimerLabel(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	l, _ := newLogger(t, console.WithClock(clk))
	l.Time("")
	clk.SetTime(clk.Now().Add(3 * time.Millisecond))
	assert.NotPanics(t, func() { l.TimeEnd("default") })
	assert.Equal(t, []string{"default: 3ms - timer ended"}, texts(consoletest.Items(l.Root())))
}

func TestGroups(t *testing.T) {
	l, rec := newLogger(t)
	l.Group("A")
	l.Log(1)
	l.GroupEnd()
	l.Log(2)
	l.GroupEnd()
	l.GroupEnd()
	l.Log(3)

	root := l.Root()
	require.Len(t, root.Children, 4)
	header, group := root.Children[0], root.Children[1]
	assert.True(t, header.HasClass("group-header"))
	assert.Equal(t, "A", consoletest.Text(header))
	assert.True(t, group.HasClass("console-group"))
	assert.False(t, group.HasClass("closed"))
	assert.Equal(t, []string{"1"}, texts(consoletest.Items(group)))
	assert.Equal(t, []string{"2", "3"}, texts(consoletest.Items(root)))
	assert.Equal(t, []string{"group", "log", "groupEnd", "log", "groupEnd", "groupEnd", "log"}, rec.Ops())
}

func TestGroupCollapsed(t *testing.T) {
	l, _ := newLogger(t)
	l.GroupCollapsed("")
	l.Group("inner")
	l.Log("deep")

	root := l.Root()
	header, outer := root.Children[0], root.Children[1]
	assert.Equal(t, "<Unnamed group>", consoletest.Text(header))
	assert.True(t, outer.HasClass("closed"))

	arrow := header.Children[0]
	require.True(t, tree.IsArrow(arrow))
	assert.True(t, tree.ArrowClosedState(arrow))
	l.Sync(func() { arrow.Click() })
	assert.False(t, outer.HasClass("closed"))
	l.Sync(func() { arrow.Click() })
	assert.True(t, outer.HasClass("closed"))

	inner := outer.Children[1]
	assert.Equal(t, []string{"deep"}, texts(consoletest.Items(inner)))
}

func TestClear(t *testing.T) {
	l, rec := newLogger(t)
	l.Group("A")
	l.Log(1)
	l.Clear()
	l.Log(2)
	assert.Equal(t, []string{"2"}, texts(consoletest.Items(l.Root())))
	assert.Len(t, l.Root().Children, 1)
	assert.Equal(t, []string{"group", "log", "clear", "log"}, rec.Ops())
}

func TestMountUnmount(t *testing.T) {
	rec := &consoletest.Recorder{}
	table := rec.Table()
	original := *table
	l := console.New(dom.Div(), console.WithTable(table))

	l.Mount()
	table.Log("captured")
	table.Count("c")
	assert.Equal(t, []string{"captured", "c: 0"}, texts(consoletest.Items(l.Root())))
	assert.Equal(t, []string{"log", "count"}, rec.Ops())

	l.Unmount()
	table.Log("released")
	assert.Len(t, consoletest.Items(l.Root()), 2)
	assert.Equal(t, []string{"log", "count", "log"}, rec.Ops())

	want := reflect.ValueOf(original)
	got := reflect.ValueOf(*table)
	for i := 0; i < want.NumField(); i++ {
		assert.Equal(t, want.Field(i).Pointer(), got.Field(i).Pointer(), want.Type().Field(i).Name)
	}

	l.Mount()
	l.Unmount()
	l.Mount()
	l.Unmount()
	assert.Equal(t, reflect.ValueOf(original.Log).Pointer(), reflect.ValueOf(table.Log).Pointer())
}

func TestNestedLoggers(t *testing.T) {
	rec := &consoletest.Recorder{}
	table := rec.Table()
	outer := console.New(dom.Div(), console.WithTable(table))
	outer.Mount()
	inner := console.New(dom.Div(), console.WithTable(table))
	inner.Mount()

	table.Log("x")
	assert.Len(t, consoletest.Items(inner.Root()), 1)
	assert.Len(t, consoletest.Items(outer.Root()), 1)
	assert.Equal(t, []string{"log"}, rec.Ops())

	inner.Unmount()
	table.Log("y")
	assert.Len(t, consoletest.Items(inner.Root()), 1)
	assert.Len(t, consoletest.Items(outer.Root()), 2)

	outer.Unmount()
	table.Log("z")
	assert.Len(t, consoletest.Items(outer.Root()), 2)
	assert.Equal(t, []string{"log", "log", "log"}, rec.Ops())
}

func TestStdPackageFunctions(t *testing.T) {
	l := console.New(dom.Div())
	l.Mount()
	defer l.Unmount()
	console.Log("via", "std")
	console.Group("g")
	console.Info(1)
	console.GroupEnd()
	assert.Equal(t, []string{"via std"}, texts(consoletest.Items(l.Root())))
}

func TestNilTableEntries(t *testing.T) {
	table := &console.Table{}
	l := console.New(dom.Div(), console.WithTable(table))
	assert.NotPanics(t, func() {
		l.Log(1)
		l.Count("")
		l.Time("")
		l.TimeEnd("")
		l.TimeStamp("x")
		l.Trace()
	})
	l.Mount()
	l.Unmount()
	assert.Nil(t, table.Log)
}

func TestPromiseSettles(t *testing.T) {
	l, _ := newLogger(t)
	p := value.NewPromise()
	l.Log(p)

	item := consoletest.Items(l.Root())[0]
	buttons := item.FindAll(func(n *dom.Node) bool { return n.Tag == "button" && !tree.IsArrow(n) })
	require.Len(t, buttons, 1)
	l.Sync(func() { buttons[0].Click() })
	p.Resolve(value.Tuple{1, "a"})
	l.Settle()

	var text string
	l.Sync(func() { text = consoletest.Text(item) })
	assert.Equal(t, `Promise fulfilled: #(1, "a")`, text)
}

func TestGetterFailureDoesNotEscape(t *testing.T) {
	l, _ := newLogger(t)
	obj := value.NewObject("Thing").
		DefineGetter("bad", func(*value.Object) (any, error) { panic(errors.New("boom")) })
	assert.NotPanics(t, func() { l.Log(obj) })

	item := consoletest.Items(l.Root())[0]
	node := tree.Of(item.Children[0])
	require.NotNil(t, node)
	l.Sync(node.Expand)
	assert.Equal(t, "Thing { bad: Error }bad: Error boom", consoletest.Text(item))
}

func TestGleamSyntaxToggle(t *testing.T) {
	l, _ := newLogger(t, console.WithGleamSyntax(false))
	assert.False(t, l.GleamSyntax())
	l.Log(true, value.Nil, []int{1})
	l.SetGleamSyntax(true)
	l.Log(true, value.Nil, []int{1})
	assert.Equal(t, []string{"true undefined [1]", "True Nil #(1)"}, texts(consoletest.Items(l.Root())))
}

func TestRun(t *testing.T) {
	l, rec := newLogger(t)
	l.Log("stale")
	l.Run(func() any { return value.NewCustom("Ok", value.Positional(1)...) })
	assert.Equal(t, []string{"Ok(1)"}, texts(consoletest.Items(l.Root())))
	assert.Equal(t, []string{"log", "clear", "log"}, rec.Ops())

	l.Run(func() any {
		panic(&value.GleamError{
			Kind:    "todo",
			Message: "This has not yet been implemented",
			Module:  "app",
			Line:    7,
			Fn:      "main",
			Value:   value.Nil,
		})
	})
	items := consoletest.Items(l.Root())
	require.Len(t, items, 1)
	assert.Equal(t, console.LevelError, consoletest.Level(items[0]))
	assert.Equal(t, "Error: This has not yet been implemented\n  module: app\n  line: 7 \n  fn: main\n  value: Nil",
		consoletest.Text(items[0]))

	l.Run(func() any { panic("plain") })
	assert.Equal(t, []string{"Error plain"}, texts(consoletest.Items(l.Root())))

	l.Run(nil)
	assert.Equal(t, []string{console.MissingMain}, texts(consoletest.Items(l.Root())))
}

func TestRunCapturesProgramLogs(t *testing.T) {
	rec := &consoletest.Recorder{}
	table := rec.Table()
	l := console.New(dom.Div(), console.WithTable(table))
	l.Run(func() any {
		table.Log("from program")
		return 1
	})
	assert.Equal(t, []string{"from program", "1"}, texts(consoletest.Items(l.Root())))
	table.Log("after")
	assert.Len(t, consoletest.Items(l.Root()), 2)
}

func TestTrace(t *testing.T) {
	l, rec := newLogger(t)
	l.Trace("here")
	items := consoletest.Items(l.Root())
	require.Len(t, items, 2)
	assert.Equal(t, "here", consoletest.Text(items[0]))
	stack := consoletest.Text(items[1])
	lines := strings.Split(stack, "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "console_test.TestTrace")
	assert.NotContains(t, stack, "(*Logger).Trace")
	assert.Equal(t, console.LevelTrace, consoletest.Level(items[1]))
	assert.Equal(t, []string{"trace"}, rec.Ops())

	l.Clear()
	l.Trace()
	assert.Len(t, consoletest.Items(l.Root()), 1)
}
