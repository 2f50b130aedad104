package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/qibergames/vercel-action/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level string
	JSON  bool
	Debug bool

	// DebugEnv and RunnerDebug hold the raw DEBUG and RUNNER_DEBUG values.
	// DEBUG is often a namespace pattern for other tools, only "true" enables debug.
	DebugEnv    string
	RunnerDebug string

	// Writer receives log output, os.Stdout when nil
	Writer io.Writer
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("VERCEL_ACTION_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("VERCEL_ACTION_LOG_JSON"),
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "Force debug logging and dump deployment options",
			Destination: &c.Debug,
		},
		&cli.StringFlag{
			Name:        "debug-env",
			Usage:       "Raw DEBUG value, debug is enabled when it is \"true\"",
			Hidden:      true,
			Destination: &c.DebugEnv,
			Sources:     cli.EnvVars("DEBUG"),
		},
		&cli.StringFlag{
			Name:        "runner-debug",
			Usage:       "Raw RUNNER_DEBUG value, debug is enabled when it is \"1\"",
			Hidden:      true,
			Destination: &c.RunnerDebug,
			Sources:     cli.EnvVars("RUNNER_DEBUG"),
		},
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.New("invalid log level",
			goerr.V("level", s),
			goerr.T(types.ErrTagConfig),
		)
	}
}

// DebugEnabled reports whether debug output is forced by flag or environment
func (c *Logger) DebugEnabled() bool {
	return c.Debug || c.DebugEnv == "true" || c.RunnerDebug == "1"
}

// Configure configures and returns a logger
func (c *Logger) Configure() (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if c.DebugEnabled() {
		level = slog.LevelDebug
	}

	w := c.Writer
	if w == nil {
		w = os.Stdout
	}

	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("PrivateKey"),
	)

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
		)
	}

	return slog.New(handler), nil
}
