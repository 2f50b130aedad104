package model

import "fmt"

// DeploymentEventKind tags an element of the deployment event stream
type DeploymentEventKind string

const (
	EventCreated       DeploymentEventKind = "created"
	EventBuilding      DeploymentEventKind = "building"
	EventReady         DeploymentEventKind = "ready"
	EventAliasAssigned DeploymentEventKind = "alias-assigned"
	EventError         DeploymentEventKind = "error"
	EventCanceled      DeploymentEventKind = "canceled"

	// Informational kinds emitted while files are prepared
	EventHashesCalculated DeploymentEventKind = "hashes-calculated"
	EventFileCount        DeploymentEventKind = "file-count"
	EventAllFilesUploaded DeploymentEventKind = "all-files-uploaded"
)

// UpdatesStatus reports whether events of this kind change the status comment
func (k DeploymentEventKind) UpdatesStatus() bool {
	switch k {
	case EventCreated, EventBuilding, EventReady, EventAliasAssigned:
		return true
	default:
		return false
	}
}

// DeploymentEvent is one element of the stream returned by submitting a deployment.
// Snapshot is set for status kinds, Failure for EventError.
type DeploymentEvent struct {
	Kind     DeploymentEventKind
	Snapshot *DeploymentSnapshot
	Failure  *DeploymentFailure
	Message  string
}

// DeploymentFailure is the payload of an error event
type DeploymentFailure struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (f *DeploymentFailure) String() string {
	if f == nil {
		return "unknown deployment failure"
	}
	if f.Code == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}
