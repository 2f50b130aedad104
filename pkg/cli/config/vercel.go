package config

import (
	"github.com/qibergames/vercel-action/pkg/infra/vercel"
	"github.com/urfave/cli/v3"
)

// Vercel holds Vercel API configuration
type Vercel struct {
	Token     string `masq:"secret"`
	OrgID     string
	ProjectID string
	APIURL    string
}

// Flags returns CLI flags for Vercel configuration
func (c *Vercel) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vercel-token",
			Usage:       "Vercel API token",
			Required:    true,
			Destination: &c.Token,
			Sources:     cli.EnvVars("VERCEL_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "vercel-org-id",
			Usage:       "Vercel team ID, scopes every API call",
			Destination: &c.OrgID,
			Sources:     cli.EnvVars("VERCEL_ORG_ID"),
		},
		&cli.StringFlag{
			Name:        "vercel-project-id",
			Usage:       "Vercel project ID, used as deployment name when set",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("VERCEL_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "vercel-api-url",
			Usage:       "Vercel REST API endpoint",
			Value:       vercel.DefaultBaseURL,
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("VERCEL_API_URL"),
		},
	}
}

// NewClient builds the Vercel API client
func (c *Vercel) NewClient(opts ...vercel.Option) *vercel.Client {
	opts = append([]vercel.Option{
		vercel.WithBaseURL(c.APIURL),
		vercel.WithTeamID(c.OrgID),
	}, opts...)
	return vercel.New(c.Token, opts...)
}
