package github

import (
	"context"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// RunInput holds the raw workflow run values exported by GitHub Actions
type RunInput struct {
	SHA         string
	Actor       string
	Repository  string // owner/name
	Ref         string
	EventName   string
	EventPath   string
	PullRequest int // explicit override, 0 to read it from the event payload
}

// EventProcessor resolves the run context from the workflow event
type EventProcessor struct {
	input RunInput
}

// NewEventProcessor creates a new GitHub Actions event processor
func NewEventProcessor(input RunInput) *EventProcessor {
	return &EventProcessor{
		input: input,
	}
}

// RunContext builds the run context of the current workflow run
func (p *EventProcessor) RunContext(ctx context.Context) (model.RunContext, error) {
	logger := ctxlog.From(ctx)

	owner, repo, ok := strings.Cut(p.input.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return model.RunContext{}, goerr.New("invalid repository, expected owner/name",
			goerr.V("repository", p.input.Repository),
			goerr.T(types.ErrTagConfig),
		)
	}

	run := model.RunContext{
		SHA:         p.input.SHA,
		Actor:       p.input.Actor,
		Owner:       owner,
		Repo:        repo,
		Ref:         p.input.Ref,
		PullRequest: p.input.PullRequest,
	}

	if run.PullRequest > 0 {
		logger.Debug("Using pull request override", "number", run.PullRequest)
		return run, nil
	}

	number, err := p.pullRequestNumber(ctx)
	if err != nil {
		return model.RunContext{}, err
	}
	run.PullRequest = number

	return run, nil
}

func (p *EventProcessor) pullRequestNumber(ctx context.Context) (int, error) {
	logger := ctxlog.From(ctx)

	if p.input.EventPath == "" {
		logger.Debug("No event payload available")
		return 0, nil
	}

	raw, err := os.ReadFile(p.input.EventPath)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read event payload",
			goerr.V("path", p.input.EventPath),
			goerr.T(types.ErrTagConfig),
		)
	}

	event, err := github.ParseWebHook(p.input.EventName, raw)
	if err != nil {
		logger.Debug("Ignoring unsupported event type",
			"event_type", p.input.EventName,
			"error", err,
		)
		return 0, nil
	}

	switch ev := event.(type) {
	case *github.PullRequestEvent:
		if n := ev.GetNumber(); n > 0 {
			return n, nil
		}
		return ev.GetPullRequest().GetNumber(), nil

	case *github.PullRequestTargetEvent:
		if n := ev.GetNumber(); n > 0 {
			return n, nil
		}
		return ev.GetPullRequest().GetNumber(), nil

	case *github.PullRequestReviewEvent:
		return ev.GetPullRequest().GetNumber(), nil

	case *github.IssueCommentEvent:
		if issue := ev.GetIssue(); issue != nil && issue.IsPullRequest() {
			return issue.GetNumber(), nil
		}

	default:
		logger.Debug("Event is not tied to a pull request", "event_type", p.input.EventName)
	}

	return 0, nil
}
