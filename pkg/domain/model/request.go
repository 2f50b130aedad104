package model

// ProjectSettings are passed verbatim from the build manifest to the platform
type ProjectSettings struct {
	Framework       *string `json:"framework,omitempty"`
	InstallCommand  *string `json:"installCommand,omitempty"`
	BuildCommand    *string `json:"buildCommand,omitempty"`
	OutputDirectory *string `json:"outputDirectory,omitempty"`
}

// DeploymentMeta is the git metadata attached to a deployment
type DeploymentMeta struct {
	GitHubCommitSha         string `json:"githubCommitSha"`
	GitHubCommitAuthorName  string `json:"githubCommitAuthorName"`
	GitHubCommitAuthorLogin string `json:"githubCommitAuthorLogin"`
	GitHubDeployment        string `json:"githubDeployment"`
	GitHubOrg               string `json:"githubOrg"`
	GitHubRepo              string `json:"githubRepo"`
	GitHubCommitOrg         string `json:"githubCommitOrg"`
	GitHubCommitRepo        string `json:"githubCommitRepo"`
	GitHubCommitMessage     string `json:"githubCommitMessage"`
	GitHubCommitRef         string `json:"githubCommitRef"`
}

// DeploymentRequest describes one deployment. It is built once per run and not
// modified after submission.
type DeploymentRequest struct {
	Name             string          `json:"name,omitempty"`
	WorkingDirectory string          `json:"-"`
	ProjectSettings  ProjectSettings `json:"projectSettings"`
	Meta             DeploymentMeta  `json:"meta"`
}

// NewDeploymentRequest assembles a request from the build settings, run context and
// latest commit subject
func NewDeploymentRequest(name, workDir string, settings ProjectSettings, run RunContext, commitMessage string) *DeploymentRequest {
	return &DeploymentRequest{
		Name:             name,
		WorkingDirectory: workDir,
		ProjectSettings:  settings,
		Meta: DeploymentMeta{
			GitHubCommitSha:         run.SHA,
			GitHubCommitAuthorName:  run.Actor,
			GitHubCommitAuthorLogin: run.Actor,
			GitHubDeployment:        "1",
			GitHubOrg:               run.Owner,
			GitHubRepo:              run.Repo,
			GitHubCommitOrg:         run.Owner,
			GitHubCommitRepo:        run.Repo,
			GitHubCommitMessage:     commitMessage,
			GitHubCommitRef:         run.Branch(),
		},
	}
}
