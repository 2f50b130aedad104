package config

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

const sentryFlushTimeout = 2 * time.Second

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string

	// Transport replaces the HTTP transport of the client, nil for the default
	Transport sentry.Transport
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN, fatal errors are reported when set",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("VERCEL_ACTION_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Env,
			Sources:     cli.EnvVars("VERCEL_ACTION_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether errors are sent to Sentry
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}

// Configure initializes the Sentry client. It is a no-op without DSN.
func (c *Sentry) Configure(ctx context.Context) error {
	if !c.Enabled() {
		ctxlog.From(ctx).Debug("Sentry is disabled")
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     types.Version,
		Transport:   c.Transport,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry", goerr.T(types.ErrTagConfig))
	}

	return nil
}

// Capture reports err and waits for delivery
func (c *Sentry) Capture(ctx context.Context, err error) {
	if !c.Enabled() || err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	if values := goerr.Values(err); len(values) > 0 {
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("goerr", sentry.Context(values))
		})
	}

	if id := hub.CaptureException(err); id != nil {
		ctxlog.From(ctx).Info("Error reported to sentry", "event_id", *id)
	}
	if !hub.Flush(sentryFlushTimeout) {
		ctxlog.From(ctx).Warn("Timed out flushing sentry events")
	}
}
