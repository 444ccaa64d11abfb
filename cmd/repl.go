// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/gleamconsole/repl"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive console session",
	Long: `Start an interactive console.

Each line is a console command followed by Gleam literals.  After every
command the new console output is printed.  Line editing, command
completion and history are supported via readline.  Use Ctrl-D to exit.

Example session:
  gleamconsole> log "answer:" 42
  answer: 42
  gleamconsole> group request
  ⏷ request
  gleamconsole> info Ok(#(200, "OK"))
    ⏵ Ok(#(200, "OK"))
  gleamconsole> groupEnd
  gleamconsole> controls
  1: ⏷ request
  2: ⏵ Ok(#(200, "OK"))
  gleamconsole> click 2
  ...
  gleamconsole> help
  ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newCmdConfig(nil)
		session := cfg.newSession()
		return repl.RunSession(session, filepath.Base(os.Args[0])+"> ",
			repl.WithRenderer(newRenderer(os.Stderr)),
		)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
