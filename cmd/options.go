// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/luthersystems/gleamconsole/console"
	"github.com/luthersystems/gleamconsole/dom"
	"github.com/luthersystems/gleamconsole/format"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (RenderCommand,
// DAPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	rules []format.Rule
	log   hclog.Logger
}

// WithRule registers a formatter rule on every session the command
// creates.  Embedders use it to render their own value types.
func WithRule(r format.Rule) Option {
	return func(c *cmdConfig) { c.rules = append(c.rules, r) }
}

// WithLogger sets the logger for the command's diagnostics.  By default
// it logs to stderr at the configured --log-level.
func WithLogger(log hclog.Logger) Option {
	return func(c *cmdConfig) { c.log = log }
}

func newCmdConfig(opts []Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// logger returns the configured logger, creating the default one on
// first use.
func (c *cmdConfig) logger() hclog.Logger {
	if c.log == nil {
		c.log = diagLogger()
	}
	return c.log
}

// newSession returns a console session that renders into a fresh root
// and forwards to nothing, with the configured rules registered.
func (c *cmdConfig) newSession() *console.Logger {
	session := console.New(dom.Div(),
		console.WithTable(&console.Table{}),
		console.WithGleamSyntax(viper.GetBool("gleam-syntax")),
		console.WithLogger(c.logger().Named("console")),
	)
	for _, r := range c.rules {
		session.Formatter().Register(r)
	}
	return session
}
