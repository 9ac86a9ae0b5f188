// internal/scan/scan.go

// Package scan finds license files and license headers in a source tree
// and identifies them.
package scan

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boyter/scc/v3/processor"
	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dsablic/licenseid/internal/engine"
	"github.com/dsablic/licenseid/internal/license"
	"github.com/dsablic/licenseid/internal/model"
)

// headerLines is how much of a source file is searched for a license header.
const headerLines = 60

var initOnce sync.Once

// Options control a scan. Zero values fall back to the defaults noted.
type Options struct {
	Threshold   float64 // minimum score counted as recognized
	Workers     int     // default 4
	Headers     bool    // also identify license headers of source files
	CrossCheck  bool    // run external detectors on the scanned root
	MaxFileSize int64   // bytes read per file; default 1 MiB
	Logger      *slog.Logger

	// Progress, if set, is called after each file is identified. Calls are
	// serialized.
	Progress func(Progress)
}

// Progress reports one finished file of a scan.
type Progress struct {
	Completed int
	Total     int
	Path      string
	Result    *model.FileResult // nil if the file was skipped or failed
}

// Scanner identifies the licenses of files in a directory tree.
type Scanner struct {
	engine *engine.Engine
	opts   Options
	logger *slog.Logger
}

type job struct {
	rel  string
	kind model.FileKind
}

// New creates a Scanner over e. It ensures that scc's ProcessConstants is
// called exactly once, even when multiple goroutines create scanners
// concurrently.
func New(e *engine.Engine, opts Options) *Scanner {
	initOnce.Do(func() {
		processor.ProcessConstants()
	})
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.MaxFileSize < 1 {
		opts.MaxFileSize = 1 << 20
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{engine: e, opts: opts, logger: logger}
}

// Scan walks dir and returns the report of every license file found and,
// when enabled, every source file with a recognized license header.
func (s *Scanner) Scan(ctx context.Context, dir string) (*model.ScanReport, error) {
	jobs, err := s.collect(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("scan candidates", "dir", dir, "files", len(jobs))

	results := make([]*model.FileResult, len(jobs))
	errs := make([]error, len(jobs))

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = s.identify(gctx, dir, j)
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.opts.Progress != nil {
				mu.Lock()
				completed++
				s.opts.Progress(Progress{Completed: completed, Total: len(jobs), Path: j.rel, Result: results[i]})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.ScanReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      dir,
		Threshold:   s.opts.Threshold,
		Corpus:      s.engine.Store().Len(),
		Files:       []model.FileResult{},
		Licenses:    []model.LicenseCount{},
	}
	counts := map[string]int{}
	for i, j := range jobs {
		if errs[i] != nil {
			s.logger.Warn("skip file", "path", j.rel, "err", errs[i])
			report.Errors = append(report.Errors, model.FileError{Path: j.rel, Error: errs[i].Error()})
			continue
		}
		r := results[i]
		if r == nil {
			continue
		}
		report.Files = append(report.Files, *r)
		if r.Recognized {
			counts[r.Match.Name]++
		} else {
			report.Unknown++
		}
	}
	report.Licenses = Aggregate(counts)

	if s.opts.CrossCheck {
		report.CrossChecks = license.CrossCheck(dir)
	}
	return report, nil
}

// ScanRemote fetches url with c and scans its HEAD tree. Only the files the
// scan would look at are written to disk.
func (s *Scanner) ScanRemote(ctx context.Context, c *Cloner, url string) (*model.ScanReport, error) {
	dir, cleanup, err := c.Clone(ctx, url, s.Wants)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	report, err := s.Scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	report.Source = url
	return report, nil
}

// Aggregate turns per-license file counts into a list ordered by count,
// largest first, then by name.
func Aggregate(counts map[string]int) []model.LicenseCount {
	out := make([]model.LicenseCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, model.LicenseCount{Name: name, Files: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Wants reports whether the file at the slash separated path rel, relative to
// the scanned root, is read by a scan.
func (s *Scanner) Wants(rel string) bool {
	for d := path.Dir(rel); d != "."; d = path.Dir(d) {
		if skipDir(d) {
			return false
		}
	}
	_, ok := s.kindOf(rel)
	return ok
}

func skipDir(rel string) bool {
	name := path.Base(rel)
	return name == ".git" || name == ".hg" || enry.IsVendor(rel+"/")
}

func (s *Scanner) kindOf(rel string) (model.FileKind, bool) {
	name := path.Base(rel)
	switch {
	case license.IsCandidate(name):
		return model.KindLicense, true
	case s.opts.Headers && !enry.IsVendor(rel) && !enry.IsDocumentation(rel):
		if langs, _ := processor.DetectLanguage(name); len(langs) > 0 {
			return model.KindHeader, true
		}
	}
	return "", false
}

func (s *Scanner) collect(ctx context.Context, dir string) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && skipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if kind, ok := s.kindOf(rel); ok {
			jobs = append(jobs, job{rel: rel, kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return jobs, nil
}

func (s *Scanner) identify(ctx context.Context, dir string, j job) (*model.FileResult, error) {
	content, err := readLimited(filepath.Join(dir, filepath.FromSlash(j.rel)), s.opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if enry.IsBinary(content) {
		return nil, nil
	}

	r := &model.FileResult{Path: j.rel, Kind: j.kind}
	switch j.kind {
	case model.KindLicense:
		m, err := s.engine.IdentifyContext(ctx, string(content))
		if err != nil {
			return nil, err
		}
		r.Match = m
		r.Recognized = m.Score >= s.opts.Threshold
	case model.KindHeader:
		name := path.Base(j.rel)
		langs, _ := processor.DetectLanguage(name)
		r.Language = processor.DetermineLanguage(name, "", langs, content)
		region := s.engine.Locate(head(content, headerLines))
		r.Match = region.Match
		r.Recognized = region.Score >= s.opts.Threshold
		if !r.Recognized {
			// Most source files carry no license header at all.
			return nil, nil
		}
	}
	return r, nil
}

func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

func head(content []byte, n int) string {
	lines := strings.SplitN(string(content), "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
