package interfaces

import (
	"context"

	"github.com/qibergames/vercel-action/pkg/domain/model"
)

// DeploymentPlatform defines operations of the hosting platform
type DeploymentPlatform interface {
	// CreateDeployment submits a deployment and returns its event stream
	CreateDeployment(ctx context.Context, req *model.DeploymentRequest) (DeploymentStream, error)

	// AssignAlias binds a domain to a deployment
	AssignAlias(ctx context.Context, deploymentID, alias string) error
}

// DeploymentStream is a blocking cursor over deployment events. Next waits for the
// next event and returns io.EOF once the stream has ended.
type DeploymentStream interface {
	Next(ctx context.Context) (*model.DeploymentEvent, error)
}
