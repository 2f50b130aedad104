package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/qibergames/vercel-action/pkg/cli/config"
	githubcontroller "github.com/qibergames/vercel-action/pkg/controller/github"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/infra/git"
	"github.com/qibergames/vercel-action/pkg/infra/manifest"
	"github.com/qibergames/vercel-action/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDeploy(loggerCfg *config.Logger) *cli.Command {
	var (
		githubCfg config.GitHub
		vercelCfg config.Vercel
		deployCfg config.Deploy
		slackCfg  config.Slack
	)

	var flags []cli.Flag
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, vercelCfg.Flags()...)
	flags = append(flags, deployCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "deploy",
		Aliases: []string{"d"},
		Usage:   "Deploy .vercel/output and keep the pull request status comment in sync",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			workDir, err := deployCfg.Dir()
			if err != nil {
				return err
			}

			run, err := githubcontroller.NewEventProcessor(githubCfg.RunInput()).RunContext(ctx)
			if err != nil {
				return err
			}

			if loggerCfg.DebugEnabled() {
				logger.Debug("Deployment options",
					"github", githubCfg,
					"vercel", vercelCfg,
					"deploy", deployCfg,
					"run", run,
				)
			}

			aliasDomains := deployCfg.Domains()

			var reporter interfaces.StatusReporter
			if run.HasPullRequest() {
				client, err := githubCfg.NewCommentClient()
				if err != nil {
					return err
				}
				reporter = usecase.NewCommentReconciler(client, run, aliasDomains)
			} else {
				logger.Warn("No pull request found for this run, status comments are skipped",
					"repository", githubCfg.Repository,
					"ref", run.Ref,
				)
				reporter = usecase.NewNopStatusReporter()
			}

			var opts []usecase.DeployOption
			if n := slackCfg.NewNotifier(); n != nil {
				opts = append(opts, usecase.WithNotifier(n))
			}

			logger.Info("Starting deployment",
				"project_id", vercelCfg.ProjectID,
				"working_directory", workDir,
				"pull_request", run.PullRequest,
				"alias_domains", aliasDomains,
			)

			uc := usecase.NewDeploy(
				usecase.DeployConfig{
					ProjectID:        vercelCfg.ProjectID,
					WorkingDirectory: workDir,
					AliasDomains:     aliasDomains,
				},
				run,
				manifest.NewReader(),
				git.NewCommitReader(),
				vercelCfg.NewClient(),
				reporter,
				opts...,
			)

			return uc.Deploy(ctx)
		},
	}
}
