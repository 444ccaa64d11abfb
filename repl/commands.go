// Copyright © 2024 The ELPS authors

package repl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/literal"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/pkg/errors"
)

// command is one REPL command.  run receives the text after the command
// name with surrounding space removed.
type command struct {
	usage string
	help  string
	run   func(s *shell, arg string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"log":            logCommand("log [values...]", "log values", func(s *shell) func(...any) { return s.session.Log }),
		"info":           logCommand("info [values...]", "log values at info level", func(s *shell) func(...any) { return s.session.Info }),
		"warn":           logCommand("warn [values...]", "log values as a warning", func(s *shell) func(...any) { return s.session.Warn }),
		"error":          logCommand("error [values...]", "log values as an error", func(s *shell) func(...any) { return s.session.Error }),
		"debug":          logCommand("debug [values...]", "log values at debug level", func(s *shell) func(...any) { return s.session.Debug }),
		"trace":          logCommand("trace [values...]", "log values and a stack trace", func(s *shell) func(...any) { return s.session.Trace }),
		"assert":         {"assert <True|False> [values...]", "log values as an error if the condition is False", (*shell).assert},
		"group":          {"group [label]", "open a group", (*shell).group},
		"groupCollapsed": {"groupCollapsed [label]", "open a collapsed group", (*shell).groupCollapsed},
		"groupEnd":       {"groupEnd", "close the innermost group", (*shell).groupEnd},
		"count":          {"count [label]", "log and increment a counter", (*shell).count},
		"countReset":     {"countReset [label]", "reset a counter", (*shell).countReset},
		"time":           {"time [label]", "start a timer", (*shell).time},
		"timeLog":        {"timeLog [label [values...]]", "log the time elapsed on a timer", (*shell).timeLog},
		"timeEnd":        {"timeEnd [label]", "log the time elapsed on a timer and stop it", (*shell).timeEnd},
		"clear":          {"clear", "clear the console", (*shell).clear},
		"controls":       {"controls", "list the visible controls", (*shell).controls},
		"click":          {"click <n>", "click control n", (*shell).click},
		"show":           {"show", "print the whole console", (*shell).show},
		"gleam":          {"gleam [on|off]", "show or set Gleam spellings", (*shell).gleam},
		"help":           {"help", "list commands", (*shell).help},
	}
	commands["expand"] = command{"expand <n>", "same as click", (*shell).click}
}

// logCommand returns a command parsing its argument as literals and
// passing them to the operation op selects.
func logCommand(usage, help string, op func(*shell) func(...any)) command {
	return command{
		usage: usage,
		help:  help,
		run: func(s *shell, arg string) error {
			vals, err := literal.Parse([]byte(arg))
			if err != nil {
				return err
			}
			op(s)(vals...)
			s.refresh()
			return nil
		},
	}
}

// commandNames returns the command names in sorted order.
func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// exec runs one input line and prints the resulting output.
func (s *shell) exec(line string) error {
	name, arg, _ := strings.Cut(line, " ")
	cmd, ok := commands[name]
	if !ok {
		return errors.Errorf("unknown command %q (try help)", name)
	}
	if err := cmd.run(s, strings.TrimSpace(arg)); err != nil {
		return errors.Wrap(err, name)
	}
	return nil
}

func (s *shell) assert(arg string) error {
	vals, err := literal.Parse([]byte(arg))
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return errors.New("missing condition")
	}
	cond, ok := vals[0].(bool)
	if !ok {
		return errors.New("condition must be True or False")
	}
	s.session.Assert(cond, vals[1:]...)
	s.refresh()
	return nil
}

func (s *shell) group(arg string) error {
	s.session.Group(arg)
	s.refresh()
	return nil
}

func (s *shell) groupCollapsed(arg string) error {
	s.session.GroupCollapsed(arg)
	s.refresh()
	return nil
}

func (s *shell) groupEnd(string) error {
	s.session.GroupEnd()
	return nil
}

func (s *shell) count(arg string) error {
	s.session.Count(arg)
	s.refresh()
	return nil
}

func (s *shell) countReset(arg string) error {
	s.session.CountReset(arg)
	s.refresh()
	return nil
}

func (s *shell) time(arg string) error {
	s.session.Time(arg)
	s.refresh()
	return nil
}

func (s *shell) timeLog(arg string) error {
	label, rest, _ := strings.Cut(arg, " ")
	vals, err := literal.Parse([]byte(rest))
	if err != nil {
		return err
	}
	s.session.TimeLog(label, vals...)
	s.refresh()
	return nil
}

func (s *shell) timeEnd(arg string) error {
	s.session.TimeEnd(arg)
	s.refresh()
	return nil
}

func (s *shell) clear(string) error {
	s.session.Clear()
	s.shown = ""
	fmt.Fprintln(s.out, "Console was cleared") //nolint:errcheck // best-effort REPL output
	return nil
}

// visibleControls returns the clickable elements a reader can see, in
// document order.
func (s *shell) visibleControls() []*dom.Node {
	root := s.session.Root()
	var found []*dom.Node
	root.Walk(func(n *dom.Node) bool {
		if n != root && (n.Hidden() || n.HasClass("closed")) {
			return false
		}
		if n.Clickable() {
			found = append(found, n)
			return false
		}
		return true
	})
	return found
}

// describe returns the text shown for control n by the controls command.
func (s *shell) describe(n *dom.Node) string {
	if tree.IsArrow(n) && n.Parent != nil {
		return s.text.Inline(n.Parent)
	}
	return s.text.Inline(n)
}

func (s *shell) controls(string) error {
	var lines []string
	s.session.Sync(func() {
		for i, n := range s.visibleControls() {
			lines = append(lines, fmt.Sprintf("%d: %s", i+1, s.describe(n)))
		}
	})
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "no controls") //nolint:errcheck // best-effort REPL output
		return nil
	}
	fmt.Fprintln(s.out, strings.Join(lines, "\n")) //nolint:errcheck // best-effort REPL output
	return nil
}

func (s *shell) click(arg string) error {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return errors.Errorf("invalid control number %q", arg)
	}
	var clicked bool
	s.session.Sync(func() {
		ctrls := s.visibleControls()
		if i < 1 || i > len(ctrls) {
			return
		}
		clicked = ctrls[i-1].Click()
	})
	if !clicked {
		return errors.Errorf("no control %d", i)
	}
	s.session.Settle()
	s.reprint()
	return nil
}

func (s *shell) show(string) error {
	s.reprint()
	return nil
}

func (s *shell) gleam(arg string) error {
	switch arg {
	case "":
	case "on":
		s.session.SetGleamSyntax(true)
	case "off":
		s.session.SetGleamSyntax(false)
	default:
		return errors.Errorf("expected on or off, not %q", arg)
	}
	state := "off"
	if s.session.GleamSyntax() {
		state = "on"
	}
	errlnf(s.out, "gleam syntax %s", state)
	return nil
}

func (s *shell) help(string) error {
	for _, name := range commandNames() {
		cmd := commands[name]
		errlnf(s.out, "  %-30s %s", cmd.usage, cmd.help)
	}
	return nil
}
