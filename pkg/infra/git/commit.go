package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
)

type commitReader struct {
	bin string
}

// NewCommitReader creates a CommitReader backed by the git binary
func NewCommitReader() interfaces.CommitReader {
	return &commitReader{bin: "git"}
}

// LatestSubject returns the trimmed output of `git show -s --format=%s`
func (r *commitReader) LatestSubject(ctx context.Context, workDir string) (string, error) {
	out, err := r.exec(ctx, workDir, "show", "-s", "--format=%s")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (r *commitReader) exec(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("args", args),
			goerr.V("dir", dir),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}
	return stdout.String(), nil
}
