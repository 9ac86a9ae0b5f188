// internal/engine/engine.go

// Package engine exposes license identification over a corpus that is
// loaded once and never modified afterwards.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/match"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/normalize"
	"github.com/dsablic/licenseid/internal/snapshot"
	"github.com/dsablic/licenseid/internal/spdx"
)

// ErrUnknownLicense is returned when a license name is not in the corpus.
var ErrUnknownLicense = errors.New("unknown license")

// Engine identifies license texts. It holds a read-only corpus and is safe
// for concurrent use by any number of goroutines.
type Engine struct {
	store  *corpus.Store
	source string
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for load-time messages. Identification
// never logs.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSource overrides the source name reported by Source.
func WithSource(source string) Option {
	return func(e *Engine) {
		if source != "" {
			e.source = source
		}
	}
}

func newEngine(store *corpus.Store, source string, opts []Option) *Engine {
	e := &Engine{
		store:  store,
		source: source,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger.Info("corpus loaded", "source", source, "licenses", store.Len())
	return e
}

// New loads an engine from snapshot bytes. It fails with a
// *snapshot.LoadError if the bytes are not a valid snapshot.
func New(data []byte, opts ...Option) (*Engine, error) {
	return load(data, "snapshot", opts)
}

func load(data []byte, source string, opts []Option) (*Engine, error) {
	store, err := snapshot.Load(data)
	if err != nil {
		return nil, err
	}
	return newEngine(store, source, opts), nil
}

// Open loads an engine from the snapshot file at path.
func Open(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, snapshot.Missing(err)
	}
	store, err := snapshot.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newEngine(store, path, opts), nil
}

// FromStore wraps an already built store, such as one read from a directory
// of license texts with corpus.FromFS.
func FromStore(store *corpus.Store, opts ...Option) (*Engine, error) {
	if store == nil || store.Len() == 0 {
		return nil, &snapshot.LoadError{Reason: snapshot.ErrInvalidCorpus, Err: corpus.ErrEmptyCorpus}
	}
	return newEngine(store, "store", opts), nil
}

var (
	builtinOnce sync.Once
	builtin     *Engine
	builtinErr  error
)

// Builtin returns the process-wide engine over the embedded reference
// snapshot. The snapshot is decoded on first use.
func Builtin() (*Engine, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = load(spdx.Snapshot(), "builtin", nil)
	})
	return builtin, builtinErr
}

// Store returns the corpus the engine matches against.
func (e *Engine) Store() *corpus.Store { return e.store }

// Source describes where the corpus was loaded from.
func (e *Engine) Source() string { return e.source }

// Identify returns the known license most similar to text. It accepts any
// input, including empty or binary text, and reports an unrecognized text
// through a low score rather than an error.
func (e *Engine) Identify(text string) model.Match {
	return match.Analyze(normalize.Normalize(text), e.store)
}

// IdentifyTop returns the n best candidates for text, best first.
func (e *Engine) IdentifyTop(text string, n int) []model.Match {
	return match.Rank(normalize.Normalize(text), e.store, n)
}

// Locate identifies text and narrows the match to the best matching
// region of its normalized lines.
func (e *Engine) Locate(text string) model.Region {
	return match.LocateBest(normalize.Normalize(text), e.store)
}

// IdentifyContext is Identify bounded by ctx. Scoring does not observe
// cancellation, so on cancellation the scoring goroutine is abandoned and
// runs to completion in the background.
func (e *Engine) IdentifyContext(ctx context.Context, text string) (model.Match, error) {
	if err := ctx.Err(); err != nil {
		return model.Match{}, err
	}
	done := make(chan model.Match, 1)
	go func() {
		done <- e.Identify(text)
	}()
	select {
	case m := <-done:
		return m, nil
	case <-ctx.Done():
		return model.Match{}, ctx.Err()
	}
}

// Diff returns the line diff between the reference text of the named
// license and text.
func (e *Engine) Diff(text, name string) ([]match.Edit, error) {
	entry, ok := e.store.Lookup(name)
	if !ok {
		return nil, e.unknown(name)
	}
	return match.Diff(normalize.Normalize(text), entry), nil
}

// Entry returns the corpus entry for a name or alias.
func (e *Engine) Entry(name string) (corpus.Entry, error) {
	entry, ok := e.store.Lookup(name)
	if !ok {
		return corpus.Entry{}, e.unknown(name)
	}
	return entry, nil
}

func (e *Engine) unknown(name string) error {
	if s := e.store.Suggest(name, 3); len(s) > 0 {
		return fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownLicense, name, strings.Join(s, ", "))
	}
	return fmt.Errorf("%w %q", ErrUnknownLicense, name)
}
