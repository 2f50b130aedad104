package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// DefaultBaseURL is the public Vercel REST API endpoint
const DefaultBaseURL = "https://api.vercel.com"

const defaultPollInterval = 2 * time.Second

// Client talks to the Vercel REST API
type Client struct {
	token        string
	teamID       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option is a functional option for Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTeamID scopes every request to a team
func WithTeamID(teamID string) Option {
	return func(c *Client) {
		c.teamID = teamID
	}
}

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithPollInterval sets the delay between deployment status requests
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// New constructs a Client authenticated with token
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:        token,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ interfaces.DeploymentPlatform = (*Client)(nil)

// CreateDeployment returns the event stream of a new deployment. Nothing is sent
// to the platform until the first call of Next.
func (c *Client) CreateDeployment(ctx context.Context, req *model.DeploymentRequest) (interfaces.DeploymentStream, error) {
	if req == nil {
		return nil, goerr.New("deployment request is nil", goerr.T(types.ErrTagPlatform))
	}
	return newStream(c, req), nil
}

// AssignAlias binds alias to the deployment
func (c *Client) AssignAlias(ctx context.Context, deploymentID, alias string) error {
	body := map[string]string{"alias": alias}
	path := fmt.Sprintf("/v2/deployments/%s/aliases", url.PathEscape(deploymentID))

	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return goerr.Wrap(err, "failed to assign alias",
			goerr.V("deployment_id", deploymentID),
			goerr.V("alias", alias),
		)
	}
	return nil
}

// APIError is an error response of the Vercel API
type APIError struct {
	Status  int
	Code    string
	Message string
	Missing []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("vercel api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("vercel api request failed (%d %s): %s", e.Status, e.Code, e.Message)
}

type errorResponse struct {
	Error *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Missing []string `json:"missing"`
	} `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	headers := http.Header{}
	if body != nil {
		headers.Set("Content-Type", "application/json")
	}
	return c.do(ctx, method, path, query, reader, -1, headers, v)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, length int64, headers http.Header, v any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.teamID != "" {
		query.Set("teamId", c.teamID)
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	for k, vs := range headers {
		for _, hv := range vs {
			req.Header.Add(k, hv)
		}
	}
	if length >= 0 {
		req.ContentLength = length
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("method", method), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error == nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Code = payload.Error.Code
	apiErr.Message = payload.Error.Message
	apiErr.Missing = payload.Error.Missing
	return apiErr
}
