package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// DeployConfig holds the settings of one deployment run
type DeployConfig struct {
	ProjectID        string
	WorkingDirectory string
	AliasDomains     []string
}

type deployUseCase struct {
	cfg      DeployConfig
	run      model.RunContext
	manifest interfaces.ManifestReader
	commits  interfaces.CommitReader
	platform interfaces.DeploymentPlatform
	reporter interfaces.StatusReporter
	notifier interfaces.Notifier
}

// DeployOption is a functional option for the deploy use case
type DeployOption func(*deployUseCase)

// WithNotifier reports the final outcome of the run
func WithNotifier(n interfaces.Notifier) DeployOption {
	return func(uc *deployUseCase) {
		uc.notifier = n
	}
}

// NewDeploy creates a new instance of DeployUseCase
func NewDeploy(
	cfg DeployConfig,
	run model.RunContext,
	manifest interfaces.ManifestReader,
	commits interfaces.CommitReader,
	platform interfaces.DeploymentPlatform,
	reporter interfaces.StatusReporter,
	opts ...DeployOption,
) interfaces.DeployUseCase {
	uc := &deployUseCase{
		cfg:      cfg,
		run:      run,
		manifest: manifest,
		commits:  commits,
		platform: platform,
		reporter: reporter,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Deploy submits the prebuilt output, follows the deployment to its end and
// assigns the configured aliases
func (uc *deployUseCase) Deploy(ctx context.Context) error {
	snapshot, err := uc.deploy(ctx)

	if uc.notifier != nil {
		outcome := &model.DeploymentOutcome{
			Run:      uc.run,
			Snapshot: snapshot,
			Aliases:  uc.cfg.AliasDomains,
			Err:      err,
		}
		if nErr := uc.notifier.NotifyDeployment(ctx, outcome); nErr != nil {
			ctxlog.From(ctx).Warn("Failed to send deployment notification", "error", nErr)
		}
	}

	return err
}

func (uc *deployUseCase) deploy(ctx context.Context) (*model.DeploymentSnapshot, error) {
	logger := ctxlog.From(ctx)

	req, err := uc.buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("Deployment request", "request", req)
	logger.Info("Creating deployment",
		"project", req.Name,
		"path", req.WorkingDirectory,
		"ref", req.Meta.GitHubCommitRef,
		"sha", req.Meta.GitHubCommitSha,
	)

	stream, err := uc.platform.CreateDeployment(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create deployment", goerr.T(types.ErrTagPlatform))
	}

	snapshot, err := uc.follow(ctx, stream)
	if err != nil {
		return snapshot, err
	}

	if err := uc.assignAliases(ctx, snapshot); err != nil {
		return snapshot, err
	}

	logger.Info("Deployment completed",
		"deployment_id", snapshot.ID,
		"status", snapshot.Status,
		"url", snapshot.URL,
	)
	return snapshot, nil
}

func (uc *deployUseCase) buildRequest(ctx context.Context) (*model.DeploymentRequest, error) {
	manifest, err := uc.manifest.ReadManifest(ctx, uc.cfg.WorkingDirectory)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read build manifest", goerr.T(types.ErrTagManifest))
	}
	if len(manifest.Builds) == 0 {
		return nil, goerr.New("build manifest has no builds", goerr.T(types.ErrTagManifest))
	}
	settings := manifest.Builds[0].Config
	if settings == nil {
		return nil, goerr.New("first build of the manifest has no config", goerr.T(types.ErrTagManifest))
	}

	subject, err := uc.commits.LatestSubject(ctx, uc.cfg.WorkingDirectory)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read latest commit subject", goerr.T(types.ErrTagManifest))
	}

	return model.NewDeploymentRequest(uc.cfg.ProjectID, uc.cfg.WorkingDirectory, *settings, uc.run, subject), nil
}

// follow consumes the event stream one event at a time. Each status update is
// written before the next event is read, so the comment never goes back to an
// earlier state.
func (uc *deployUseCase) follow(ctx context.Context, stream interfaces.DeploymentStream) (*model.DeploymentSnapshot, error) {
	logger := ctxlog.From(ctx)
	var last *model.DeploymentSnapshot

	for {
		event, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return last, goerr.Wrap(err, "failed to receive deployment event", goerr.T(types.ErrTagPlatform))
		}

		switch {
		case event.Kind.UpdatesStatus():
			if event.Snapshot == nil {
				return last, goerr.New("deployment event has no payload",
					goerr.T(types.ErrTagPlatform),
					goerr.V("kind", event.Kind),
				)
			}
			snapshot := *event.Snapshot
			last = &snapshot

			logger.Info("Deployment state changed",
				"event", event.Kind,
				"deployment_id", snapshot.ID,
				"status", snapshot.Status,
				"alias_assigned", snapshot.AliasAssigned,
			)
			if err := uc.reporter.Upsert(ctx, snapshot); err != nil {
				return last, goerr.Wrap(err, "failed to report deployment status", goerr.T(types.ErrTagCommentAPI))
			}

		case event.Kind == model.EventError:
			if last != nil {
				failed := last.WithStatus(model.DeploymentStatusError)
				last = &failed
				if err := uc.reporter.Upsert(ctx, failed); err != nil {
					logger.Warn("Failed to report deployment failure", "error", err)
				}
			}
			logger.Error("Deployment failed", "failure", event.Failure.String())
			return last, goerr.New("deployment failed",
				goerr.T(types.ErrTagPlatform),
				goerr.V("failure", event.Failure.String()),
			)

		default:
			logger.Debug("Ignoring deployment event", "event", event.Kind, "message", event.Message)
		}
	}

	if last == nil {
		return nil, goerr.New("deployment stream ended without a deployment", goerr.T(types.ErrTagPlatform))
	}
	return last, nil
}

func (uc *deployUseCase) assignAliases(ctx context.Context, snapshot *model.DeploymentSnapshot) error {
	logger := ctxlog.From(ctx)

	for _, alias := range uc.cfg.AliasDomains {
		if err := uc.platform.AssignAlias(ctx, snapshot.ID, alias); err != nil {
			return goerr.Wrap(err, "failed to assign alias",
				goerr.T(types.ErrTagAlias),
				goerr.V("alias", alias),
				goerr.V("deployment_id", snapshot.ID),
			)
		}
		logger.Info("Assigned alias", "alias", alias, "deployment_id", snapshot.ID)
	}
	return nil
}
