// internal/corpus/builder.go
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dsablic/licenseid/internal/normalize"
)

// AliasesFile is the optional manifest read by FromFS next to the license
// texts. Each table is keyed by license name:
//
//	[MIT]
//	aliases = ["Expat", "MIT License"]
const AliasesFile = "aliases.toml"

// Manifest is the decoded form of AliasesFile.
type Manifest map[string]ManifestEntry

// ManifestEntry holds the metadata of one license in a Manifest.
type ManifestEntry struct {
	Aliases []string `toml:"aliases"`
}

// Builder accumulates raw license texts and builds a Store from them. It is
// used when producing a snapshot, not on the query path.
type Builder struct {
	entries []Entry
}

// Add normalizes raw and records it under name.
func (b *Builder) Add(name, raw string, aliases ...string) {
	b.entries = append(b.entries, NewEntry(name, normalize.Normalize(raw), aliases...))
}

// Len returns the number of texts added so far.
func (b *Builder) Len() int { return len(b.entries) }

// Build returns the store holding every added text.
func (b *Builder) Build() (*Store, error) {
	return NewStore(b.entries)
}

// FromFS builds a store from every "<name>.txt" file at the root of fsys.
// If AliasesFile is present its aliases are attached to the matching
// entries; naming a license without a text file is an error.
func FromFS(fsys fs.FS) (*Store, error) {
	manifest, err := readManifest(fsys)
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("list license texts: %w", err)
	}

	var b Builder
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), ".txt")
		seen[name] = true
		b.Add(name, string(data), manifest[name].Aliases...)
	}

	for name := range manifest {
		if !seen[name] {
			return nil, fmt.Errorf("%s: aliases given for license without text", name)
		}
	}

	return b.Build()
}

func readManifest(fsys fs.FS) (Manifest, error) {
	data, err := fs.ReadFile(fsys, AliasesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", AliasesFile, err)
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AliasesFile, err)
	}
	return m, nil
}
