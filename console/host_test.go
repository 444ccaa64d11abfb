// Copyright © 2024 The ELPS authors

package console_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/console"
	"github.com/stretchr/testify/assert"
	testingclock "k8s.io/utils/clock/testing"
)

func newHost(level hclog.Level) (*console.HostConsole, *bytes.Buffer) {
	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{
		Name:        "host",
		Level:       level,
		Output:      &buf,
		DisableTime: true,
	})
	return console.NewHostConsole(log), &buf
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestHostConsoleLevels(t *testing.T) {
	h, buf := newHost(hclog.Info)
	table := h.Table()
	table.Log("plain", 1)
	table.Warn("careful")
	table.Error("broken")
	table.Debug("filtered")
	table.Assert(true, "never")
	table.Assert(false, "x")

	out := lines(buf)
	if assert.Len(t, out, 4) {
		assert.Contains(t, out[0], "[INFO]")
		assert.Contains(t, out[0], "host: plain 1")
		assert.Contains(t, out[1], "[WARN]")
		assert.Contains(t, out[2], "[ERROR]")
		assert.Contains(t, out[3], "Assertion failed: x")
	}
}

func TestHostConsoleGroups(t *testing.T) {
	h, buf := newHost(hclog.Info)
	table := h.Table()
	table.Group("outer")
	table.GroupCollapsed("")
	table.Log("deep")
	table.GroupEnd()
	table.GroupEnd()
	table.GroupEnd()
	table.Log("top")

	out := lines(buf)
	if assert.Len(t, out, 2) {
		assert.Contains(t, out[0], "host.outer.<Unnamed group>: deep")
		assert.Contains(t, out[1], "host: top")
	}
}

func TestHostConsoleCounters(t *testing.T) {
	h, buf := newHost(hclog.Info)
	table := h.Table()
	table.Count("")
	table.Count("")
	table.CountReset("")
	table.Count("")

	out := lines(buf)
	if assert.Len(t, out, 3) {
		assert.Contains(t, out[0], "default: 1")
		assert.Contains(t, out[1], "default: 2")
		assert.Contains(t, out[2], "default: 1")
	}
}

func TestHostConsoleTimers(t *testing.T) {
	h, buf := newHost(hclog.Info)
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	h.SetClock(clk)
	table := h.Table()
	table.Time("t")
	clk.SetTime(clk.Now().Add(20 * time.Millisecond))
	table.TimeLog("t", "step")
	clk.SetTime(clk.Now().Add(2 * time.Second))
	table.TimeEnd("t")
	table.TimeEnd("t")
	table.TimeLog("t")

	out := lines(buf)
	if assert.Len(t, out, 2) {
		assert.Contains(t, out[0], "t: 20ms step")
		assert.Contains(t, out[1], "t: 2.02s - timer ended")
	}
}

func TestHostConsoleClear(t *testing.T) {
	h, buf := newHost(hclog.Trace)
	h.SetClock(testingclock.NewFakePassiveClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	table := h.Table()
	table.Group("g")
	table.Clear()
	table.Trace("t")
	table.TimeStamp("mark")

	out := lines(buf)
	if assert.Len(t, out, 2) {
		assert.Contains(t, out[0], "[TRACE]")
		assert.Contains(t, out[0], "host: t")
		assert.Contains(t, out[1], "[DEBUG]")
		assert.Contains(t, out[1], "timestamp mark 2024-01-02T03:04:05Z")
	}
}
