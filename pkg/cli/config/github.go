package config

import (
	"github.com/m-mizutani/goerr/v2"
	githubcontroller "github.com/qibergames/vercel-action/pkg/controller/github"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/types"
	"github.com/qibergames/vercel-action/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub authentication and workflow run configuration
type GitHub struct {
	Token             string `masq:"secret"`
	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string `masq:"secret"`
	APIURL            string

	SHA         string
	Actor       string
	Repository  string
	Ref         string
	EventName   string
	EventPath   string
	PullRequest int
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to manage the status comment",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used when no token is given",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("VERCEL_ACTION_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.AppInstallationID,
			Sources:     cli.EnvVars("VERCEL_ACTION_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.AppPrivateKey,
			Sources:     cli.EnvVars("VERCEL_ACTION_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-sha",
			Usage:       "Commit SHA of the workflow run",
			Destination: &c.SHA,
			Sources:     cli.EnvVars("GITHUB_SHA"),
		},
		&cli.StringFlag{
			Name:        "github-actor",
			Usage:       "Login of the user who triggered the run",
			Destination: &c.Actor,
			Sources:     cli.EnvVars("GITHUB_ACTOR"),
		},
		&cli.StringFlag{
			Name:        "github-repository",
			Usage:       "Repository of the run (owner/name)",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-ref",
			Usage:       "Git ref of the run",
			Destination: &c.Ref,
			Sources:     cli.EnvVars("GITHUB_REF"),
		},
		&cli.StringFlag{
			Name:        "github-event-name",
			Usage:       "Name of the event that triggered the run",
			Destination: &c.EventName,
			Sources:     cli.EnvVars("GITHUB_EVENT_NAME"),
		},
		&cli.StringFlag{
			Name:        "github-event-path",
			Usage:       "Path of the event payload file",
			Destination: &c.EventPath,
			Sources:     cli.EnvVars("GITHUB_EVENT_PATH"),
		},
		&cli.IntFlag{
			Name:        "pull-request",
			Usage:       "Pull request number overriding the event payload",
			Destination: &c.PullRequest,
			Sources:     cli.EnvVars("VERCEL_ACTION_PULL_REQUEST"),
		},
	}
}

// RunInput returns the workflow run values for the event processor
func (c *GitHub) RunInput() githubcontroller.RunInput {
	return githubcontroller.RunInput{
		SHA:         c.SHA,
		Actor:       c.Actor,
		Repository:  c.Repository,
		Ref:         c.Ref,
		EventName:   c.EventName,
		EventPath:   c.EventPath,
		PullRequest: c.PullRequest,
	}
}

// NewCommentClient builds the comment client from token or App credentials
func (c *GitHub) NewCommentClient() (interfaces.CommentClient, error) {
	var opts []github.Option
	if c.APIURL != "" {
		opts = append(opts, github.WithBaseURL(c.APIURL))
	}

	switch {
	case c.Token != "":
		return github.NewClient(c.Token, opts...)

	case c.AppID != 0 && c.AppInstallationID != 0 && c.AppPrivateKey != "":
		return github.NewAppClient(c.AppID, c.AppInstallationID, []byte(c.AppPrivateKey), opts...)

	default:
		return nil, goerr.New("GitHub credentials are required, set --github-token or the GitHub App options",
			goerr.T(types.ErrTagConfig),
		)
	}
}
