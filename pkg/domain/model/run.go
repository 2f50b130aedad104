package model

import "strings"

const branchRefPrefix = "refs/heads/"

// RunContext identifies the CI run that triggered the deployment
type RunContext struct {
	SHA         string
	Actor       string
	Owner       string
	Repo        string
	Ref         string
	PullRequest int // 0 when the run is not tied to a pull request
}

// Branch returns Ref without the refs/heads/ prefix
func (r RunContext) Branch() string {
	return strings.TrimPrefix(r.Ref, branchRefPrefix)
}

// HasPullRequest reports whether a review request is available for the status comment
func (r RunContext) HasPullRequest() bool {
	return r.PullRequest > 0
}
