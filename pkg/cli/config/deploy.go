package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Deploy holds deployment run configuration
type Deploy struct {
	WorkingDirectory string
	AliasDomains     string
}

// Flags returns CLI flags for deployment configuration
func (c *Deploy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "working-directory",
			Usage:       "Directory containing .vercel/output, current directory when empty",
			Destination: &c.WorkingDirectory,
			Sources:     cli.EnvVars("WORKING_DIRECTORY"),
		},
		&cli.StringFlag{
			Name:        "alias-domains",
			Usage:       "Alias domains to assign after deployment, one per line",
			Destination: &c.AliasDomains,
			Sources:     cli.EnvVars("ALIAS_DOMAINS"),
		},
	}
}

// Domains returns the configured alias domains in order, blank lines dropped
func (c *Deploy) Domains() []string {
	var domains []string
	for _, line := range strings.Split(c.AliasDomains, "\n") {
		if d := strings.TrimSpace(line); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}

// Dir returns the working directory of the deployment
func (c *Deploy) Dir() (string, error) {
	if c.WorkingDirectory != "" {
		return c.WorkingDirectory, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", goerr.Wrap(err, "failed to get current directory", goerr.T(types.ErrTagConfig))
	}
	return wd, nil
}
