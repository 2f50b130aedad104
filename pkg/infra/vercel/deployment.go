package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/model"
)

const errCodeMissingFiles = "missing_files"

type createDeploymentBody struct {
	Name            string                `json:"name,omitempty"`
	Files           []deploymentFile      `json:"files"`
	ProjectSettings model.ProjectSettings `json:"projectSettings"`
	Meta            model.DeploymentMeta  `json:"meta"`
}

// deployment is the subset of the deployment resource used to build snapshots
type deployment struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Name          string       `json:"name"`
	ReadyState    string       `json:"readyState"`
	Status        string       `json:"status"`
	InspectorURL  string       `json:"inspectorUrl"`
	AliasAssigned flexBool     `json:"aliasAssigned"`
	AliasError    *deployError `json:"aliasError"`
	ErrorCode     string       `json:"errorCode"`
	ErrorMessage  string       `json:"errorMessage"`
	Project       *projectRef  `json:"project"`
}

type projectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type deployError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (d *deployment) status() (model.DeploymentStatus, error) {
	state := d.ReadyState
	if state == "" {
		state = d.Status
	}
	return model.ParseDeploymentStatus(state)
}

func (d *deployment) snapshot() (*model.DeploymentSnapshot, error) {
	status, err := d.status()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid deployment state", goerr.V("deployment_id", d.ID))
	}

	projectName := d.Name
	if d.Project != nil && d.Project.Name != "" {
		projectName = d.Project.Name
	}

	return &model.DeploymentSnapshot{
		ID:            d.ID,
		URL:           d.URL,
		Status:        status,
		ProjectName:   projectName,
		InspectorURL:  d.InspectorURL,
		AliasAssigned: bool(d.AliasAssigned),
	}, nil
}

// flexBool accepts the boolean, timestamp and null forms of aliasAssigned
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch s := strings.TrimSpace(string(data)); s {
	case "null", "false", `""`:
		*b = false
	case "true":
		*b = true
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return goerr.Wrap(err, "invalid aliasAssigned value", goerr.V("value", s))
		}
		*b = n != 0
	}
	return nil
}

func (c *Client) postDeployment(ctx context.Context, body *createDeploymentBody) (*deployment, error) {
	query := url.Values{}
	query.Set("skipAutoDetectionConfirmation", "1")

	var d deployment
	if err := c.doJSON(ctx, http.MethodPost, "/v13/deployments", query, body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) getDeployment(ctx context.Context, id string) (*deployment, error) {
	var d deployment
	path := fmt.Sprintf("/v13/deployments/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &d); err != nil {
		return nil, goerr.Wrap(err, "failed to get deployment", goerr.V("deployment_id", id))
	}
	return &d, nil
}
