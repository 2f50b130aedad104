package interfaces

import (
	"context"

	"github.com/qibergames/vercel-action/pkg/domain/model"
)

// StatusReporter keeps the status comment of a review request in sync with a deployment
type StatusReporter interface {
	Upsert(ctx context.Context, snapshot model.DeploymentSnapshot) error
}

// DeployUseCase runs one deployment from prebuilt output to a terminal state
type DeployUseCase interface {
	Deploy(ctx context.Context) error
}
