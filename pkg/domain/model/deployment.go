package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DeploymentStatus is the lifecycle state of a deployment as reported by the platform
type DeploymentStatus string

const (
	DeploymentStatusQueued       DeploymentStatus = "QUEUED"
	DeploymentStatusInitializing DeploymentStatus = "INITIALIZING"
	DeploymentStatusBuilding     DeploymentStatus = "BUILDING"
	DeploymentStatusReady        DeploymentStatus = "READY"
	DeploymentStatusError        DeploymentStatus = "ERROR"
	DeploymentStatusCanceled     DeploymentStatus = "CANCELED"
)

// ParseDeploymentStatus converts a platform-reported state into a DeploymentStatus.
// Unknown states are rejected so that every status in the system has a label.
func ParseDeploymentStatus(s string) (DeploymentStatus, error) {
	switch status := DeploymentStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case DeploymentStatusQueued,
		DeploymentStatusInitializing,
		DeploymentStatusBuilding,
		DeploymentStatusReady,
		DeploymentStatusError,
		DeploymentStatusCanceled:
		return status, nil
	default:
		return "", goerr.New("unknown deployment status", goerr.V("status", s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *DeploymentStatus) UnmarshalText(text []byte) error {
	status, err := ParseDeploymentStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Label returns the human readable label shown in the status comment
func (s DeploymentStatus) Label() string {
	switch s {
	case DeploymentStatusReady:
		return "✅ Ready"
	case DeploymentStatusError:
		return "❌ Failed"
	case DeploymentStatusQueued:
		return "🕒 Queued"
	case DeploymentStatusBuilding:
		return "🔨 Building"
	case DeploymentStatusInitializing:
		return "🏗️ Initializing"
	case DeploymentStatusCanceled:
		return "❎ Canceled"
	}
	// Unreachable for values built by ParseDeploymentStatus
	return string(s)
}

// IsTerminal reports whether no further state transition can follow
func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case DeploymentStatusReady, DeploymentStatusError, DeploymentStatusCanceled:
		return true
	default:
		return false
	}
}

// DeploymentSnapshot is the last known full state of a deployment
type DeploymentSnapshot struct {
	ID            string
	URL           string
	Status        DeploymentStatus
	ProjectName   string
	InspectorURL  string
	AliasAssigned bool
}

// WithStatus returns a copy of the snapshot with the status replaced
func (s DeploymentSnapshot) WithStatus(status DeploymentStatus) DeploymentSnapshot {
	s.Status = status
	return s
}
