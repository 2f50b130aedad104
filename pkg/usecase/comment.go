package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// CommentMarker prefixes the body of the status comment. A comment starting with it
// is reused by later runs instead of creating a new one.
const CommentMarker = "[vc]:"

const commentTimeFormat = "Jan 2, 2006, 3:04 PM"

// CommentReconciler keeps a single status comment on a pull request in sync with
// the latest deployment snapshot.
//
// The lookup-then-act sequence of Upsert is not atomic: two runs on the same pull
// request may both miss the comment and both create one.
type CommentReconciler struct {
	client       interfaces.CommentClient
	owner        string
	repo         string
	number       int
	aliasDomains []string
	now          func() time.Time
}

// CommentOption is a functional option for CommentReconciler
type CommentOption func(*CommentReconciler)

// WithClock replaces the clock used for the "Updated" column
func WithClock(now func() time.Time) CommentOption {
	return func(r *CommentReconciler) {
		r.now = now
	}
}

// NewCommentReconciler creates a reconciler for the pull request of the run
func NewCommentReconciler(client interfaces.CommentClient, run model.RunContext, aliasDomains []string, opts ...CommentOption) *CommentReconciler {
	r := &CommentReconciler{
		client:       client,
		owner:        run.Owner,
		repo:         run.Repo,
		number:       run.PullRequest,
		aliasDomains: aliasDomains,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindExisting returns the id of the first comment whose body starts with CommentMarker
func (r *CommentReconciler) FindExisting(ctx context.Context) (int64, bool, error) {
	ctxlog.From(ctx).Debug("Listing pull request comments",
		"owner", r.owner,
		"repo", r.repo,
		"number", r.number,
	)

	comments, err := r.client.ListComments(ctx, r.owner, r.repo, r.number)
	if err != nil {
		return 0, false, goerr.Wrap(err, "failed to list pull request comments",
			goerr.T(types.ErrTagCommentAPI),
			goerr.V("owner", r.owner),
			goerr.V("repo", r.repo),
			goerr.V("number", r.number),
		)
	}

	for _, c := range comments {
		if strings.HasPrefix(c.GetBody(), CommentMarker) {
			return c.GetID(), true, nil
		}
	}
	return 0, false, nil
}

// Render builds the comment body for a snapshot
func (r *CommentReconciler) Render(snapshot model.DeploymentSnapshot) string {
	var preview, feedback string
	if snapshot.AliasAssigned {
		domain := r.previewDomain(snapshot)
		preview = fmt.Sprintf("[Visit Preview](https://%s)", domain)
		feedback = fmt.Sprintf("💬 [**Add feedback**](https://vercel.live/open-feedback/%s?via=pr-comment-feedback-link)", domain)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s #%s\n", CommentMarker, snapshot.ID))
	sb.WriteString("**The latest updates on your projects**. Learn more about [Vercel for Git ↗︎](https://vercel.link/github-learn-more)\n\n")
	sb.WriteString("| Name | Status | Preview | Comments | Updated (UTC) |\n")
	sb.WriteString("| :--- | :----- | :------ | :------- | :------ |\n")
	sb.WriteString(fmt.Sprintf("| **%s** | %s ([Inspect](%s)) | %s | %s | %s |",
		snapshot.ProjectName,
		snapshot.Status.Label(),
		snapshot.InspectorURL,
		preview,
		feedback,
		r.now().UTC().Format(commentTimeFormat),
	))

	return sb.String()
}

// previewDomain is the first configured alias, or the deployment URL when none is configured
func (r *CommentReconciler) previewDomain(snapshot model.DeploymentSnapshot) string {
	if len(r.aliasDomains) > 0 {
		return r.aliasDomains[0]
	}
	return snapshot.URL
}

// Upsert edits the existing status comment or creates it
func (r *CommentReconciler) Upsert(ctx context.Context, snapshot model.DeploymentSnapshot) error {
	logger := ctxlog.From(ctx)

	commentID, found, err := r.FindExisting(ctx)
	if err != nil {
		return err
	}

	body := r.Render(snapshot)

	if found {
		if _, err := r.client.EditComment(ctx, r.owner, r.repo, commentID, body); err != nil {
			return goerr.Wrap(err, "failed to update status comment",
				goerr.T(types.ErrTagCommentAPI),
				goerr.V("comment_id", commentID),
			)
		}
		logger.Info("Updated status comment",
			"comment_id", commentID,
			"status", snapshot.Status,
		)
		return nil
	}

	created, err := r.client.CreateComment(ctx, r.owner, r.repo, r.number, body)
	if err != nil {
		return goerr.Wrap(err, "failed to create status comment",
			goerr.T(types.ErrTagCommentAPI),
			goerr.V("number", r.number),
		)
	}
	logger.Info("Created status comment",
		"comment_id", created.GetID(),
		"status", snapshot.Status,
	)
	return nil
}

type nopReporter struct{}

// NewNopStatusReporter returns a reporter for runs without a pull request
func NewNopStatusReporter() interfaces.StatusReporter {
	return nopReporter{}
}

func (nopReporter) Upsert(ctx context.Context, snapshot model.DeploymentSnapshot) error {
	ctxlog.From(ctx).Debug("No pull request, status comment skipped",
		"deployment_id", snapshot.ID,
		"status", snapshot.Status,
	)
	return nil
}
