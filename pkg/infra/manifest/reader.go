package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/domain/interfaces"
	"github.com/qibergames/vercel-action/pkg/domain/model"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

// OutputDir is the prebuilt output directory relative to the working directory
const OutputDir = ".vercel/output"

// Path is the build manifest location relative to the working directory
const Path = OutputDir + "/builds.json"

type reader struct{}

// NewReader creates a ManifestReader for prebuilt output
func NewReader() interfaces.ManifestReader {
	return &reader{}
}

// ReadManifest reads and parses <workDir>/.vercel/output/builds.json
func (r *reader) ReadManifest(ctx context.Context, workDir string) (*model.BuildManifest, error) {
	path := filepath.Join(workDir, filepath.FromSlash(Path))
	ctxlog.From(ctx).Debug("Reading build manifest", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "build manifest not found, run `vercel build` first",
				goerr.T(types.ErrTagManifest),
				goerr.V("path", path),
			)
		}
		return nil, goerr.Wrap(err, "failed to read build manifest",
			goerr.T(types.ErrTagManifest),
			goerr.V("path", path),
		)
	}

	var manifest model.BuildManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, goerr.Wrap(err, "failed to parse build manifest",
			goerr.T(types.ErrTagManifest),
			goerr.V("path", path),
		)
	}

	return &manifest, nil
}
