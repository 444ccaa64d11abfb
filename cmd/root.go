// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/term"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gleamconsole",
	Short: "Render Gleam runtime values as an interactive console",
	Long: `gleamconsole renders runtime values the way the Gleam playground console
does: primitives print as Gleam literals, lists, tuples and custom types print
as compact one-line summaries, and every compound value can be expanded to
show its fields.

Getting started:
  gleamconsole render values.gleam        Render the literals in a file
  gleamconsole render -e '#(1, "a")'      Render a literal given as an argument
  gleamconsole render --html data.json    Render JSON documents as HTML
  gleamconsole repl                       Start an interactive console
  gleamconsole dap --stdio                Serve a console to a DAP client

Values are written in Gleam literal syntax:
  1  -2.5e3  "text"  True  False  Nil
  [1, 2, 3]            lists
  #(1, "a")            tuples
  Ok(1)  None          custom type variants
  User(name: "Ann")    labelled fields

Files ending in .json, .yaml or .yml are read as JSON or YAML documents.

Configuration is read from $HOME/.gleamconsole.yaml and from environment
variables prefixed with GLEAMCONSOLE_ (for example GLEAMCONSOLE_COLOR=never
or GLEAMCONSOLE_DAP_PORT=4711).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("color", term.ColorAuto.String())
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("gleam-syntax", true)
	viper.SetDefault("width", 0)
	viper.SetDefault("dap.port", 4711)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gleamconsole.yaml)")
	flags.String("color", term.ColorAuto.String(),
		`Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn",
		"Level of diagnostic logging: trace, debug, info, warn or error.")
	flags.Bool("gleam-syntax", true,
		"Print True, False and Nil; false prints true, false and undefined.")
	flags.Int("width", 0, "Cut output lines to this many columns (0 for no limit).")

	for _, key := range []string{"color", "log-level", "gleam-syntax", "width"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gleamconsole" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gleamconsole")
	}

	viper.SetEnvPrefix("GLEAMCONSOLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		diagLogger().Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// colorMode returns the configured color mode, falling back to auto
// detection for unknown values.
func colorMode() term.ColorMode {
	mode, err := term.ParseColorMode(viper.GetString("color"))
	if err != nil {
		diagLogger().Warn("ignoring color setting", "error", err)
		return term.ColorAuto
	}
	return mode
}

// diagLogger returns the logger for the tool's own diagnostics.  It
// writes to stderr so that it never mixes with rendered output or with
// a DAP stream on stdout.
func diagLogger() hclog.Logger {
	color := hclog.AutoColor
	switch viper.GetString("color") {
	case term.ColorAlways.String():
		color = hclog.ForceColor
	case term.ColorNever.String():
		color = hclog.ColorOff
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "gleamconsole",
		Level:  hclog.LevelFromString(viper.GetString("log-level")),
		Output: os.Stderr,
		Color:  color,
	})
}

// newRenderer returns a terminal renderer configured for w.
func newRenderer(w io.Writer, opts ...term.Option) *term.Renderer {
	base := []term.Option{
		term.WithColor(colorMode().Enabled(w)),
		term.WithWidth(viper.GetInt("width")),
	}
	return term.New(append(base, opts...)...)
}
