package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	colorGood    = "good"
	colorWarning = "warning"
)

type notifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewNotifier creates a Notifier posting to a Slack incoming webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// NotifyDeployment posts a one-message summary of the run
func (n *notifier) NotifyDeployment(ctx context.Context, outcome *model.DeploymentOutcome) error {
	msg := buildMessage(outcome)
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack message")
	}
	return nil
}

func buildMessage(outcome *model.DeploymentOutcome) *slack.WebhookMessage {
	run := outcome.Run
	target := fmt.Sprintf("%s/%s@%s", run.Owner, run.Repo, run.Branch())

	attachment := slack.Attachment{
		Color: colorGood,
		Title: fmt.Sprintf("Deployment of %s is ready", target),
	}

	switch {
	case !outcome.Succeeded():
		attachment.Color = colorWarning
		attachment.Title = fmt.Sprintf("Deployment of %s failed", target)
		attachment.Text = outcome.Err.Error()

	case outcome.Snapshot != nil && outcome.Snapshot.Status == model.DeploymentStatusCanceled:
		attachment.Color = colorWarning
		attachment.Title = fmt.Sprintf("Deployment of %s was canceled", target)

	case outcome.Snapshot != nil && outcome.Snapshot.Status != model.DeploymentStatusReady:
		attachment.Title = fmt.Sprintf("Deployment of %s finished as %s", target, outcome.Snapshot.Status.Label())
	}

	if s := outcome.Snapshot; s != nil {
		attachment.TitleLink = s.InspectorURL
		attachment.Fields = append(attachment.Fields,
			slack.AttachmentField{Title: "Project", Value: s.ProjectName, Short: true},
			slack.AttachmentField{Title: "Status", Value: s.Status.Label(), Short: true},
		)
		if outcome.Succeeded() && s.Status == model.DeploymentStatusReady {
			attachment.Fields = append(attachment.Fields,
				slack.AttachmentField{Title: "Preview", Value: "https://" + previewHost(outcome)},
			)
		}
	}

	if run.HasPullRequest() {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: "Pull request",
			Value: fmt.Sprintf("https://github.com/%s/%s/pull/%d", run.Owner, run.Repo, run.PullRequest),
		})
	}

	return &slack.WebhookMessage{
		Text:        attachment.Title,
		Attachments: []slack.Attachment{attachment},
	}
}

func previewHost(outcome *model.DeploymentOutcome) string {
	if len(outcome.Aliases) > 0 {
		return outcome.Aliases[0]
	}
	return outcome.Snapshot.URL
}
