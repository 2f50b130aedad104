package interfaces

import (
	"context"

	"github.com/qibergames/vercel-action/pkg/domain/model"
)

// ManifestReader loads the build manifest of a prebuilt output directory
type ManifestReader interface {
	ReadManifest(ctx context.Context, workDir string) (*model.BuildManifest, error)
}

// CommitReader reads information about the checked out commit
type CommitReader interface {
	// LatestSubject returns the subject line of the latest commit
	LatestSubject(ctx context.Context, workDir string) (string, error)
}

// Notifier reports the final outcome of a run
type Notifier interface {
	NotifyDeployment(ctx context.Context, outcome *model.DeploymentOutcome) error
}
