package config

import (
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for the deployment summary",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("VERCEL_ACTION_SLACK_WEBHOOK_URL"),
		},
	}
}

// NewNotifier returns a Slack notifier, or nil when no webhook is configured
func (c *Slack) NewNotifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.WebhookURL)
}
