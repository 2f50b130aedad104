package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/usecase"
)

// mockCommentClient is an in-memory CommentClient
type mockCommentClient struct {
	comments  []*github.IssueComment
	nextID    int64
	listErr   error
	createErr error
	editErr   error

	listCalls   int
	createCalls []string
	editCalls   []editCall
}

type editCall struct {
	ID   int64
	Body string
}

func (m *mockCommentClient) ListComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*github.IssueComment{}, m.comments...), nil
}

func (m *mockCommentClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error) {
	m.createCalls = append(m.createCalls, body)
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	c := &github.IssueComment{ID: github.Ptr(1000 + m.nextID), Body: github.Ptr(body)}
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *mockCommentClient) EditComment(ctx context.Context, owner, repo string, commentID int64, body string) (*github.IssueComment, error) {
	m.editCalls = append(m.editCalls, editCall{ID: commentID, Body: body})
	if m.editErr != nil {
		return nil, m.editErr
	}
	for _, c := range m.comments {
		if c.GetID() == commentID {
			c.Body = github.Ptr(body)
			return c, nil
		}
	}
	return nil, errors.New("comment not found")
}

// markerComments returns all status comments
func (m *mockCommentClient) markerComments() []*github.IssueComment {
	var out []*github.IssueComment
	for _, c := range m.comments {
		if strings.HasPrefix(c.GetBody(), usecase.CommentMarker) {
			out = append(out, c)
		}
	}
	return out
}

// mockStream replays a fixed list of events
type mockStream struct {
	events []*model.DeploymentEvent
	err    error
	pos    int
}

func (s *mockStream) Next(ctx context.Context) (*model.DeploymentEvent, error) {
	if s.pos >= len(s.events) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	e := s.events[s.pos]
	s.pos++
	return e, nil
}

// mockPlatform records platform calls
type mockPlatform struct {
	stream    *mockStream
	createErr error
	aliasErr  error

	requests   []*model.DeploymentRequest
	aliasCalls []aliasCall
}

type aliasCall struct {
	DeploymentID string
	Alias        string
}

func (p *mockPlatform) CreateDeployment(ctx context.Context, req *model.DeploymentRequest) (interfaces.DeploymentStream, error) {
	p.requests = append(p.requests, req)
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.stream, nil
}

func (p *mockPlatform) AssignAlias(ctx context.Context, deploymentID, alias string) error {
	p.aliasCalls = append(p.aliasCalls, aliasCall{DeploymentID: deploymentID, Alias: alias})
	return p.aliasErr
}

type mockManifestReader struct {
	manifest *model.BuildManifest
	err      error
	workDirs []string
}

func (m *mockManifestReader) ReadManifest(ctx context.Context, workDir string) (*model.BuildManifest, error) {
	m.workDirs = append(m.workDirs, workDir)
	return m.manifest, m.err
}

type mockCommitReader struct {
	subject string
	err     error
}

func (m *mockCommitReader) LatestSubject(ctx context.Context, workDir string) (string, error) {
	return m.subject, m.err
}

type mockNotifier struct {
	outcomes []*model.DeploymentOutcome
	err      error
}

func (m *mockNotifier) NotifyDeployment(ctx context.Context, outcome *model.DeploymentOutcome) error {
	m.outcomes = append(m.outcomes, outcome)
	return m.err
}
