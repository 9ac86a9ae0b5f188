// internal/snapshot/errors.go
package snapshot

import (
	"errors"
	"fmt"
)

// Reasons a snapshot is rejected. A *LoadError wraps exactly one of them.
var (
	ErrMissing       = errors.New("snapshot missing")
	ErrTruncated     = errors.New("snapshot truncated")
	ErrBadMagic      = errors.New("not a license corpus snapshot")
	ErrVersion       = errors.New("unsupported snapshot format version")
	ErrChecksum      = errors.New("snapshot checksum mismatch")
	ErrCorrupt       = errors.New("snapshot payload corrupt")
	ErrInvalidCorpus = errors.New("snapshot holds an invalid corpus")
)

// LoadError reports why snapshot bytes could not be turned into a corpus.
// Without a valid corpus the engine refuses to start.
type LoadError struct {
	Reason error // one of the Err* sentinels
	Err    error // underlying cause, may be nil
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return "load corpus: " + e.Reason.Error()
	}
	return fmt.Sprintf("load corpus: %v: %v", e.Reason, e.Err)
}

// Unwrap lets errors.Is match both the reason and the cause.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func loadErr(reason error, format string, args ...any) error {
	var err error
	if format != "" {
		err = fmt.Errorf(format, args...)
	}
	return &LoadError{Reason: reason, Err: err}
}

// Missing reports a snapshot that could not be read at all, such as a file
// that does not exist.
func Missing(err error) error {
	return &LoadError{Reason: ErrMissing, Err: err}
}
