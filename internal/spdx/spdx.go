// internal/spdx/spdx.go

// Package spdx embeds a small reference corpus of common license texts
// keyed by SPDX identifier, both as raw texts and as a prebuilt snapshot.
package spdx

//go:generate go run ../../cmd/licenseid build --force -o corpus.lidc

import (
	"embed"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/dsablic/licenseid/internal/corpus"
)

//go:embed texts
var texts embed.FS

//go:embed corpus.lidc
var snapshot []byte

// ErrNotFound is returned by Text for an unknown identifier.
var ErrNotFound = errors.New("license not found in builtin corpus")

var (
	storeOnce sync.Once
	store     *corpus.Store
	storeErr  error
)

// FS returns the embedded license texts and aliases manifest, laid out as
// corpus.FromFS expects.
func FS() fs.FS {
	sub, err := fs.Sub(texts, "texts")
	if err != nil {
		// The embedded directory always exists.
		panic(err)
	}
	return sub
}

// Snapshot returns the prebuilt snapshot of the texts in FS. Callers must
// not modify the returned bytes.
func Snapshot() []byte { return snapshot }

// Store returns the builtin corpus built from the raw texts. It is built on first use and shared by
// every caller afterwards.
func Store() (*corpus.Store, error) {
	storeOnce.Do(func() {
		store, storeErr = corpus.FromFS(FS())
	})
	return store, storeErr
}

// List returns the identifiers of the builtin licenses in order.
func List() []string {
	files, _ := fs.Glob(FS(), "*.txt")
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = strings.TrimSuffix(f, ".txt")
	}
	sort.Strings(names)
	return names
}

// Text returns the raw reference text of the license with the given
// identifier. If there is no such license, ErrNotFound is returned.
func Text(id string) (string, error) {
	data, err := fs.ReadFile(FS(), id+".txt")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}
