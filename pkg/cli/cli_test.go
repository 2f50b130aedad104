package cli_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/qibergames/vercel-action/pkg/cli"
	"github.com/qibergames/vercel-action/pkg/domain/types"
)

type recorder struct {
	mu       sync.Mutex
	comments map[int64]string
	nextID   int64
	aliases  []string
	creates  int
	edits    int
	deploys  int
}

func (r *recorder) vercel() http.Handler {
	router := chi.NewRouter()
	router.Post("/v13/deployments", func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.deploys++
		r.mu.Unlock()
		fmt.Fprint(w, `{"id":"dpl_1","url":"website-abc.vercel.app","name":"website","readyState":"QUEUED","inspectorUrl":"https://vercel.com/i/dpl_1"}`)
	})
	router.Get("/v13/deployments/{id}", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"id":"dpl_1","url":"website-abc.vercel.app","name":"website","readyState":"READY","inspectorUrl":"https://vercel.com/i/dpl_1","aliasAssigned":true}`)
	})
	router.Post("/v2/deployments/{id}/aliases", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Alias string `json:"alias"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		r.aliases = append(r.aliases, chi.URLParam(req, "id")+"="+body.Alias)
		r.mu.Unlock()
		fmt.Fprintf(w, `{"alias":%q}`, body.Alias)
	})
	return router
}

func (r *recorder) github() http.Handler {
	router := chi.NewRouter()
	router.Get("/repos/{owner}/{repo}/issues/{number}/comments", func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		var out []map[string]any
		for id, body := range r.comments {
			out = append(out, map[string]any{"id": id, "body": body})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	router.Post("/repos/{owner}/{repo}/issues/{number}/comments", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Body string `json:"body"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		defer r.mu.Unlock()
		r.nextID++
		r.creates++
		r.comments[r.nextID] = body.Body
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": r.nextID, "body": body.Body})
	})
	router.Patch("/repos/{owner}/{repo}/issues/comments/{id}", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Body string `json:"body"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		defer r.mu.Unlock()
		var id int64
		_, _ = fmt.Sscan(chi.URLParam(req, "id"), &id)
		r.edits++
		r.comments[id] = body.Body
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "body": body.Body})
	})
	return router
}

func setupWorkDir(t *testing.T, withManifest bool) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	files := map[string]string{
		".vercel/output/config.json":       `{"version":3}`,
		".vercel/output/static/index.html": "<h1>hello</h1>",
	}
	if withManifest {
		files[".vercel/output/builds.json"] = `{"builds":[{"use":"@vercel/next","config":{"framework":"nextjs"}}]}`
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	for _, args := range [][]string{
		{"init", "-q"},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "--allow-empty", "-m", "fix: typo"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	return dir
}

func args(dir, vercelURL, githubURL string) []string {
	return []string{
		"vercel-action", "--log-json", "deploy",
		"--vercel-token", "test-token",
		"--vercel-project-id", "prj_123",
		"--vercel-api-url", vercelURL,
		"--github-token", "ghp_test",
		"--github-api-url", githubURL,
		"--github-repository", "qibergames/website",
		"--github-ref", "refs/heads/main",
		"--github-sha", "abc123",
		"--github-actor", "octocat",
		"--pull-request", "5",
		"--working-directory", dir,
		"--alias-domains", "preview.example.com\nwww.example.com",
	}
}

func TestRun_Deploy(t *testing.T) {
	dir := setupWorkDir(t, true)
	rec := &recorder{comments: map[int64]string{}}

	vercelServer := httptest.NewServer(rec.vercel())
	t.Cleanup(vercelServer.Close)
	githubServer := httptest.NewServer(rec.github())
	t.Cleanup(githubServer.Close)

	err := cli.Run(context.Background(), args(dir, vercelServer.URL, githubServer.URL))
	gt.NoError(t, err)

	gt.Value(t, rec.deploys).Equal(1)
	gt.Value(t, rec.creates).Equal(1)
	gt.Value(t, rec.edits).Equal(2)
	gt.Value(t, len(rec.comments)).Equal(1)
	gt.String(t, rec.comments[1]).Contains("[vc]: #dpl_1")
	gt.String(t, rec.comments[1]).Contains("✅ Ready")
	gt.String(t, rec.comments[1]).Contains("https://preview.example.com")
	gt.Value(t, rec.aliases).Equal([]string{"dpl_1=preview.example.com", "dpl_1=www.example.com"})
}

func TestRun_DebugNamespacePattern(t *testing.T) {
	t.Setenv("DEBUG", "next:*")
	t.Setenv("RUNNER_DEBUG", "")

	dir := setupWorkDir(t, true)
	rec := &recorder{comments: map[int64]string{}}

	vercelServer := httptest.NewServer(rec.vercel())
	t.Cleanup(vercelServer.Close)
	githubServer := httptest.NewServer(rec.github())
	t.Cleanup(githubServer.Close)

	err := cli.Run(context.Background(), args(dir, vercelServer.URL, githubServer.URL))
	gt.NoError(t, err)
	gt.Value(t, rec.deploys).Equal(1)
}

func TestRun_WithoutProjectID(t *testing.T) {
	dir := setupWorkDir(t, true)
	rec := &recorder{comments: map[int64]string{}}

	vercelServer := httptest.NewServer(rec.vercel())
	t.Cleanup(vercelServer.Close)
	githubServer := httptest.NewServer(rec.github())
	t.Cleanup(githubServer.Close)

	var withoutProject []string
	full := args(dir, vercelServer.URL, githubServer.URL)
	for i := 0; i < len(full); i++ {
		if full[i] == "--vercel-project-id" {
			i++
			continue
		}
		withoutProject = append(withoutProject, full[i])
	}

	t.Setenv("VERCEL_PROJECT_ID", "")
	err := cli.Run(context.Background(), withoutProject)
	gt.NoError(t, err)
	gt.Value(t, rec.deploys).Equal(1)
}

func TestRun_MissingManifest(t *testing.T) {
	dir := setupWorkDir(t, false)
	rec := &recorder{comments: map[int64]string{}}

	vercelServer := httptest.NewServer(rec.vercel())
	t.Cleanup(vercelServer.Close)
	githubServer := httptest.NewServer(rec.github())
	t.Cleanup(githubServer.Close)

	err := cli.Run(context.Background(), args(dir, vercelServer.URL, githubServer.URL))
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagManifest))
	gt.Value(t, rec.deploys).Equal(0)
	gt.Value(t, rec.creates).Equal(0)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"vercel-action", "--log-level", "loud", "deploy"})
	gt.Error(t, err)
}
