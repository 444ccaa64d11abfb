// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"strings"

	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/literal"
	"github.com/luthersystems/gleamconsole/term"
	"github.com/luthersystems/gleamconsole/tree"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RenderCommand creates the "render" cobra command.  Embedders can pass
// WithRule to render their own value types.
func RenderCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		expression bool
		input      string
		html       bool
		expand     int
		wrap       bool
		excludes   []string
	)

	cmd := &cobra.Command{
		Use:   "render [flags] [files...]",
		Short: "Render values as console output",
		Long: `Render values the way the console logs them, one log item per value.

Each file holds Gleam literals separated by white space, or JSON or YAML
documents when its name ends in .json, .yaml or .yml.  With no files the
values are read from stdin.  A directory argument ending in "/..." names
every .gleam, .json, .yaml and .yml file below it.

Compound values print collapsed.  --expand N opens expandable values N
levels deep.  --html writes the console document as HTML instead of text.

Examples:
  gleamconsole render values.gleam               Render the literals in a file
  gleamconsole render -e 'Ok([1, 2])' '#(1, "a")' Render arguments
  gleamconsole render --expand 2 data.yaml       Render YAML with two levels open
  gleamconsole render --exclude=build ./...      Render every value file but build/
  echo '{"a": [1, 2]}' | gleamconsole render --input json
  gleamconsole render --html values.gleam > console.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !expression && len(args) > 0 {
				files, err := expandArgs(args)
				if err != nil {
					return err
				}
				if args = filterExcludes(files, excludes); len(args) == 0 {
					return nil
				}
			}
			vals, err := readValues(cmd.InOrStdin(), args, expression, input)
			if err != nil {
				return err
			}
			log := cfg.logger()
			log.Debug("rendering values", "count", len(vals))

			session := cfg.newSession()
			for _, v := range vals {
				session.Log(v)
			}
			expandAll(session, expand)

			out := cmd.OutOrStdout()
			if html {
				session.Sync(func() {
					err = dom.RenderHTML(out, session.Root())
				})
				if err != nil {
					return errors.Wrap(err, "render html")
				}
				_, err = io.WriteString(out, "\n")
				return err
			}
			text := newRenderer(out, term.WithWrap(wrap))
			session.Sync(func() {
				err = text.Render(out, session.Root())
			})
			return errors.Wrap(err, "render")
		},
	}

	cmd.Flags().BoolVarP(&expression, "expression", "e", false,
		"Interpret arguments as Gleam literals instead of file names")
	cmd.Flags().StringVar(&input, "input", "gleam",
		`Format of stdin: "gleam", "json" or "yaml"`)
	cmd.Flags().BoolVar(&html, "html", false, "Write HTML instead of text")
	cmd.Flags().IntVar(&expand, "expand", 0, "Open expandable values this many levels deep")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Skip files matching this pattern (repeatable)")
	cmd.Flags().BoolVar(&wrap, "wrap", false, "Wrap long lines instead of cutting them at --width")

	return cmd
}

// readValues returns the values named by args: literal expressions, the
// contents of files, or the contents of stdin when args is empty.
func readValues(stdin io.Reader, args []string, expression bool, input string) ([]any, error) {
	if expression {
		return literal.Parse([]byte(strings.Join(args, " ")))
	}
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		switch input {
		case "gleam":
			return literal.Parse(b)
		case "json", "yaml":
			return literal.DecodeBytes(b)
		}
		return nil, errors.Errorf("unknown input format %q", input)
	}
	var vals []any
	for _, name := range args {
		vs, err := literal.ReadFile(name)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		vals = append(vals, vs...)
	}
	return vals, nil
}

// expandAll opens the visible expandable values of session, repeating
// depth times so that each round opens the values the last one revealed.
func expandAll(session *console.Logger, depth int) {
	for i := 0; i < depth; i++ {
		session.Sync(func() {
			for _, n := range tree.Visible(session.Root()) {
				n.Expand()
			}
		})
	}
}

func init() {
	rootCmd.AddCommand(RenderCommand())
}
