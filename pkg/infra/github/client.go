package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
)

const commentsPerPage = 100

type client struct {
	githubClient *github.Client
}

type config struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL sets the REST API endpoint, e.g. GITHUB_API_URL on GitHub Enterprise Server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) {
		c.httpClient = h
	}
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (interfaces.CommentClient, error) {
	cfg := newConfig(opts)

	githubClient := github.NewClient(cfg.httpClient).WithAuthToken(token)
	if err := setBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

// NewAppClient creates a new GitHub client with App authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.CommentClient, error) {
	cfg := newConfig(opts)

	transport := http.DefaultTransport
	if cfg.httpClient != nil && cfg.httpClient.Transport != nil {
		transport = cfg.httpClient.Transport
	}

	itr, err := ghinstallation.New(transport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if cfg.baseURL != "" {
		itr.BaseURL = strings.TrimRight(cfg.baseURL, "/")
	}

	githubClient := github.NewClient(&http.Client{Transport: itr})
	if err := setBaseURL(githubClient, cfg.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func setBaseURL(c *github.Client, baseURL string) error {
	if baseURL == "" {
		return nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", baseURL))
	}
	c.BaseURL = u
	return nil
}

// ListComments returns all comments of an issue or pull request, following pagination
func (c *client) ListComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: commentsPerPage},
	}

	var all []*github.IssueComment
	for {
		comments, resp, err := c.githubClient.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list issue comments",
				goerr.V("owner", owner),
				goerr.V("repo", repo),
				goerr.V("number", number),
				goerr.V("page", opts.Page),
			)
		}
		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// CreateComment creates a comment on an issue or pull request
func (c *client) CreateComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error) {
	comment, _, err := c.githubClient.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create issue comment",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("number", number),
		)
	}
	return comment, nil
}

// EditComment replaces the body of an existing comment
func (c *client) EditComment(ctx context.Context, owner, repo string, commentID int64, body string) (*github.IssueComment, error) {
	comment, _, err := c.githubClient.Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to edit issue comment",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("comment_id", commentID),
		)
	}
	return comment, nil
}
