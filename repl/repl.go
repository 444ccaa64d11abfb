// Copyright © 2018 The ELPS authors

// Package repl runs an interactive console session.  Each input line is a
// console command whose arguments are Gleam literals; after every command
// the new console output is printed as terminal text.  Expandable values,
// group headers and other controls are listed by number and clicked by
// number.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/term"
)

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	renderer    *term.Renderer
	historyFile string
	gleamSyntax bool
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: historyPath(),
		gleamSyntax: true,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.renderer == nil {
		config.renderer = term.New()
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithRenderer sets the renderer used to print the console.
func WithRenderer(r *term.Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithHistoryFile sets the file holding command history.  An empty name
// disables history.
func WithHistoryFile(name string) Option {
	return func(c *config) {
		c.historyFile = name
	}
}

// WithGleamSyntax selects Gleam spellings for the session RunRepl creates.
func WithGleamSyntax(on bool) Option {
	return func(c *config) {
		c.gleamSyntax = on
	}
}

// RunRepl runs a repl over a fresh console session that does not forward
// to any other console.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	session := console.New(dom.Div(),
		console.WithTable(&console.Table{}),
		console.WithGleamSyntax(cfg.gleamSyntax),
	)
	return RunSession(session, prompt, opts...)
}

// RunSession runs a repl over session until its input ends.
func RunSession(session *console.Logger, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      commandCompleter{},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &shell{
		session: session,
		text:    cfg.renderer,
		out:     out,
	}
	s.shown = s.render()
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := s.exec(string(line)); err != nil {
			fmt.Fprintln(out, err) //nolint:errcheck // best-effort error display
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gleamconsole_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to its owner.
func ensureHistoryFilePermissions(name string) {
	if name == "" {
		return
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_RDONLY, 0600)
	if err != nil {
		return
	}
	f.Close()                //nolint:errcheck,gosec // nothing was written
	_ = os.Chmod(name, 0600) //nolint:gosec // best effort
}

// shell executes commands against one session.
type shell struct {
	session *console.Logger
	text    *term.Renderer
	out     io.Writer
	// shown is the console text printed so far.
	shown string
}

// render returns the current console text.
func (s *shell) render() string {
	var text string
	s.session.Sync(func() {
		text = s.text.String(s.session.Root())
	})
	return text
}

// refresh prints what changed since the last refresh.  Output appended
// at the end is printed alone; any other change reprints the console.
func (s *shell) refresh() {
	text := s.render()
	if strings.HasPrefix(text, s.shown) {
		io.WriteString(s.out, text[len(s.shown):]) //nolint:errcheck,gosec // best-effort REPL output
	} else {
		io.WriteString(s.out, text) //nolint:errcheck,gosec // best-effort REPL output
	}
	s.shown = text
}

// reprint prints the whole console.
func (s *shell) reprint() {
	s.shown = ""
	s.refresh()
}

func errlnf(w io.Writer, format string, v ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(w, format, v...) //nolint:errcheck // best-effort error display
}
