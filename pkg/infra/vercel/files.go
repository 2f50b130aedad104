package vercel

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qibergames/vercel-action/pkg/infra/manifest"
)

// deploymentFile is one entry of the files list of a deployment
type deploymentFile struct {
	File string `json:"file"`
	Sha  string `json:"sha"`
	Size int64  `json:"size"`
	Mode uint32 `json:"mode"`

	path string
}

// collectFiles hashes every regular file below <root>/.vercel/output. File names
// are relative to root with forward slashes.
func collectFiles(root string) ([]deploymentFile, error) {
	outputDir := filepath.Join(root, filepath.FromSlash(manifest.OutputDir))

	var files []deploymentFile
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		sum, err := hashFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, deploymentFile{
			File: filepath.ToSlash(rel),
			Sha:  sum,
			Size: info.Size(),
			Mode: uint32(info.Mode().Perm()) | 0o100000,
			path: path,
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to collect prebuilt output files", goerr.V("dir", outputDir))
	}
	if len(files) == 0 {
		return nil, goerr.New("prebuilt output directory is empty", goerr.V("dir", outputDir))
	}

	return files, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// uploadFile sends the content of one file keyed by its digest
func (c *Client) uploadFile(ctx context.Context, file deploymentFile) error {
	f, err := os.Open(file.path)
	if err != nil {
		return goerr.Wrap(err, "failed to open file for upload", goerr.V("file", file.File))
	}
	defer f.Close()

	headers := http.Header{}
	headers.Set("Content-Type", "application/octet-stream")
	headers.Set("x-vercel-digest", file.Sha)

	if err := c.do(ctx, http.MethodPost, "/v2/files", nil, f, file.Size, headers, nil); err != nil {
		return goerr.Wrap(err, "failed to upload file", goerr.V("file", file.File), goerr.V("sha", file.Sha))
	}
	return nil
}
