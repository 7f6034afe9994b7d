package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alorle/hls-sorter/config"
	"github.com/alorle/hls-sorter/handlers"
	"github.com/alorle/hls-sorter/logging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

// ensureConfig loads the configuration once and applies the logging flags
// on top of it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			if !logging.ValidLevel(level) {
				c.configErr = fmt.Errorf("invalid --log-level %q", level)
				return
			}
			cfg.Log.Level = level
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			if !logging.ValidFormat(format) {
				c.configErr = fmt.Errorf("invalid --log-format %q", format)
				return
			}
			cfg.Log.Format = format
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: w})
}

// dependencies builds the fetcher and rewriter for a command. Logs go to
// the command's error stream.
func (c *commandContext) dependencies(cmd *cobra.Command) (*config.Config, handlers.Dependencies, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, handlers.Dependencies{}, nil, err
	}
	logger, err := c.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, handlers.Dependencies{}, nil, err
	}
	deps, cleanup, err := handlers.InitDependencies(cfg, logger)
	if err != nil {
		return nil, handlers.Dependencies{}, nil, err
	}
	return cfg, deps, cleanup, nil
}

func flagValue(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
