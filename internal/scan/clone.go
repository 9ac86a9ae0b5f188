// internal/scan/clone.go
package scan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Cloner fetches the HEAD commit of a git remote into memory and writes the
// files a scan needs into a temporary directory. Nothing else of the
// repository touches the disk.
type Cloner struct {
	token  string
	logger *slog.Logger
}

// NewCloner creates a Cloner. If token is non-empty it will be used for
// HTTP basic-auth (username "x-token-auth" works for GitHub and Bitbucket).
// Transfer progress from the remote is logged at debug level.
func NewCloner(token string, logger *slog.Logger) *Cloner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cloner{token: token, logger: logger}
}

// IsRemote reports whether target names a git remote rather than a local
// directory.
func IsRemote(target string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// Clone fetches the HEAD commit of cloneURL and writes every regular file of
// its tree for which want returns true into a temporary directory. A nil want
// keeps every file. It returns the directory path and a cleanup function that
// removes it; the caller must call cleanup when done with the directory.
func (c *Cloner) Clone(ctx context.Context, cloneURL string, want func(path string) bool) (dir string, cleanup func(), err error) {
	opts := &git.CloneOptions{
		URL:          cloneURL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
		NoCheckout:   true,
		Progress:     &logWriter{logger: c.logger, url: cloneURL},
	}
	if c.token != "" {
		opts.Auth = &http.BasicAuth{
			Username: "x-token-auth",
			Password: c.token,
		}
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return "", nil, fmt.Errorf("git clone: %w", err)
	}
	tree, err := headTree(repo)
	if err != nil {
		return "", nil, err
	}

	tmpDir, err := os.MkdirTemp("", "licenseid-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanupFn := func() {
		os.RemoveAll(tmpDir)
	}

	written := 0
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable {
			return nil // symlinks and submodules
		}
		if want != nil && !want(f.Name) {
			return nil
		}
		written++
		return writeBlob(tmpDir, f)
	})
	if err != nil {
		cleanupFn()
		return "", nil, fmt.Errorf("git checkout: %w", err)
	}
	c.logger.Debug("clone materialized", "url", cloneURL, "files", written)

	return tmpDir, cleanupFn, nil
}

func headTree(repo *git.Repository) (*object.Tree, error) {
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", ref.Hash(), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("read tree %s: %w", commit.TreeHash, err)
	}
	return tree, nil
}

func writeBlob(dir string, f *object.File) error {
	rel := filepath.FromSlash(f.Name)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%s: path escapes checkout", f.Name)
	}
	dst := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	r, err := f.Reader()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	defer r.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return out.Close()
}

// logWriter turns the sideband progress of a fetch into debug log lines.
type logWriter struct {
	logger *slog.Logger
	url    string
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.FieldsFunc(p, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			w.logger.Debug("git remote", "url", w.url, "msg", string(line))
		}
	}
	return len(p), nil
}
