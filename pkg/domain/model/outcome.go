package model

// DeploymentOutcome summarizes a finished run for notifications
type DeploymentOutcome struct {
	Run      RunContext
	Snapshot *DeploymentSnapshot // nil when no event was received
	Aliases  []string
	Err      error
}

// Succeeded reports whether the run completed without a fatal error
func (o *DeploymentOutcome) Succeeded() bool {
	return o.Err == nil
}
