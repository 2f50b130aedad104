package vercel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/model"
)

type phase int

const (
	phasePrepare phase = iota
	phaseCreate
	phasePoll
	phaseDone
)

// stream produces deployment events lazily. Each call of Next performs at most the
// requests needed to produce the next event.
type stream struct {
	client *Client
	req    *model.DeploymentRequest

	phase   phase
	pending []*model.DeploymentEvent
	files   []deploymentFile

	deploymentID string
	lastStatus   model.DeploymentStatus
	readySent    bool
	polled       bool
}

func newStream(c *Client, req *model.DeploymentRequest) *stream {
	return &stream{client: c, req: req}
}

// Next blocks until the next event is available and returns io.EOF after the
// last one. Platform failures are delivered as an EventError event; a non-nil
// error other than io.EOF means ctx was canceled.
func (s *stream) Next(ctx context.Context) (*model.DeploymentEvent, error) {
	for len(s.pending) == 0 {
		if s.phase == phaseDone {
			return nil, io.EOF
		}
		if err := s.advance(ctx); err != nil {
			s.phase = phaseDone
			return nil, err
		}
	}

	event := s.pending[0]
	s.pending = s.pending[1:]
	return event, nil
}

func (s *stream) emit(events ...*model.DeploymentEvent) {
	s.pending = append(s.pending, events...)
}

func (s *stream) fail(code string, err error) {
	s.emit(&model.DeploymentEvent{
		Kind:    model.EventError,
		Failure: &model.DeploymentFailure{Code: code, Message: err.Error()},
	})
	s.phase = phaseDone
}

func (s *stream) advance(ctx context.Context) error {
	switch s.phase {
	case phasePrepare:
		s.prepare(ctx)
	case phaseCreate:
		s.create(ctx)
	case phasePoll:
		return s.poll(ctx)
	}
	return nil
}

func (s *stream) prepare(ctx context.Context) {
	files, err := collectFiles(s.req.WorkingDirectory)
	if err != nil {
		s.fail("files_unavailable", err)
		return
	}
	s.files = files

	ctxlog.From(ctx).Debug("Hashed prebuilt output", "file_count", len(files))
	s.emit(
		&model.DeploymentEvent{Kind: model.EventHashesCalculated},
		&model.DeploymentEvent{Kind: model.EventFileCount, Message: fmt.Sprintf("%d files", len(files))},
	)
	s.phase = phaseCreate
}

func (s *stream) create(ctx context.Context) {
	logger := ctxlog.From(ctx)
	body := &createDeploymentBody{
		Name:            s.req.Name,
		Files:           s.files,
		ProjectSettings: s.req.ProjectSettings,
		Meta:            s.req.Meta,
	}

	d, err := s.client.postDeployment(ctx, body)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == errCodeMissingFiles {
		logger.Info("Uploading missing files", "count", len(apiErr.Missing))
		if err := s.upload(ctx, apiErr.Missing); err != nil {
			s.fail("upload_failed", err)
			return
		}
		s.emit(&model.DeploymentEvent{Kind: model.EventAllFilesUploaded})
		d, err = s.client.postDeployment(ctx, body)
	}
	if err != nil {
		s.fail(errorCode(err, "create_failed"), err)
		return
	}

	snapshot, err := d.snapshot()
	if err != nil {
		s.fail("invalid_response", err)
		return
	}

	s.deploymentID = d.ID
	s.lastStatus = snapshot.Status
	s.emit(&model.DeploymentEvent{Kind: model.EventCreated, Snapshot: snapshot})
	s.phase = phasePoll
}

func (s *stream) upload(ctx context.Context, missing []string) error {
	bySha := make(map[string]deploymentFile, len(s.files))
	for _, f := range s.files {
		bySha[f.Sha] = f
	}

	for _, sha := range missing {
		f, ok := bySha[sha]
		if !ok {
			return goerr.New("platform requested unknown file digest", goerr.V("sha", sha))
		}
		if err := s.client.uploadFile(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *stream) poll(ctx context.Context) error {
	if s.polled {
		timer := time.NewTimer(s.client.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	s.polled = true

	d, err := s.client.getDeployment(ctx, s.deploymentID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.fail(errorCode(err, "status_failed"), err)
		return nil
	}

	snapshot, err := d.snapshot()
	if err != nil {
		s.fail("invalid_response", err)
		return nil
	}

	switch snapshot.Status {
	case model.DeploymentStatusError:
		s.emit(&model.DeploymentEvent{
			Kind:    model.EventError,
			Failure: &model.DeploymentFailure{Code: d.ErrorCode, Message: d.ErrorMessage},
		})
		s.phase = phaseDone

	case model.DeploymentStatusCanceled:
		s.emit(&model.DeploymentEvent{Kind: model.EventCanceled, Snapshot: snapshot})
		s.phase = phaseDone

	case model.DeploymentStatusReady:
		if !s.readySent {
			s.readySent = true
			s.emit(&model.DeploymentEvent{Kind: model.EventReady, Snapshot: snapshot})
		}
		switch {
		case d.AliasError != nil:
			s.emit(&model.DeploymentEvent{
				Kind:    model.EventError,
				Failure: &model.DeploymentFailure{Code: d.AliasError.Code, Message: d.AliasError.Message},
			})
			s.phase = phaseDone
		case snapshot.AliasAssigned:
			s.emit(&model.DeploymentEvent{Kind: model.EventAliasAssigned, Snapshot: snapshot})
			s.phase = phaseDone
		}

	default:
		if snapshot.Status != s.lastStatus {
			s.emit(&model.DeploymentEvent{Kind: model.EventBuilding, Snapshot: snapshot})
		}
	}

	s.lastStatus = snapshot.Status
	return nil
}

func errorCode(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code
	}
	return fallback
}
