// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/gleamconsole/dapview"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DAPCommand creates the "dap" cobra command.  Embedders can pass
// WithRule to render their own value types.
func DAPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var stdio bool

	cmd := &cobra.Command{
		Use:   "dap [flags] [file]",
		Short: "Serve a console session over the Debug Adapter Protocol",
		Long: `Start a DAP (Debug Adapter Protocol) server presenting a console session.

Editors (VS Code, Neovim, Helix, etc.) show each console item in their debug
console.  Compound values can be expanded in the editor's variables view,
and expressions typed into the debug console are parsed as Gleam literals
and logged.  A launch request naming a "program" logs the values in that
file; so does a file given on the command line.

Transport modes:
  --port N     Listen for a DAP client on TCP port N (default: dap.port, 4711)
  --stdio      Use stdin/stdout for DAP communication (for editors that
               launch the debug adapter as a child process)

Examples:
  gleamconsole dap                          Serve on TCP port 4711
  gleamconsole dap --port 9229 values.json  Serve the values in a file
  gleamconsole dap --stdio                  Serve over stdio`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cfg.logger().Named("dap")
			session := cfg.newSession()
			if len(args) == 1 {
				vals, err := readValues(nil, args, false, "")
				if err != nil {
					return err
				}
				for _, v := range vals {
					session.Log(v)
				}
			}

			srv := dapview.New(session, dapview.WithLogger(log))
			if stdio {
				log.Info("using stdio transport")
				return errors.Wrap(srv.ServeStdio(os.Stdin, os.Stdout), "dap server")
			}
			addr := fmt.Sprintf("localhost:%d", viper.GetInt("dap.port"))
			return errors.Wrap(srv.ServeTCP(addr), "dap server")
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for DAP communication")
	cmd.Flags().Int("port", 4711, "TCP port for DAP server")
	if err := viper.BindPFlag("dap.port", cmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(DAPCommand())
}
