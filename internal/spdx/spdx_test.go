// internal/spdx/spdx_test.go
package spdx_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/snapshot"
	"github.com/dsablic/licenseid/internal/spdx"
)

var builtin = []string{
	"0BSD", "Apache-2.0", "BSD-2-Clause", "BSD-3-Clause", "BSL-1.0",
	"ISC", "MIT", "MIT-0", "Unlicense", "WTFPL", "Zlib",
}

func TestList(t *testing.T) {
	if diff := cmp.Diff(builtin, spdx.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestStore(t *testing.T) {
	store, err := spdx.Store()
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if diff := cmp.Diff(builtin, store.Names()); diff != "" {
		t.Errorf("store names mismatch (-want +got):\n%s", diff)
	}
	again, _ := spdx.Store()
	if again != store {
		t.Error("Store should return the same instance on every call")
	}
	for _, alias := range []string{"Expat", "new bsd", "Apache 2.0", "boost"} {
		if _, ok := store.Lookup(alias); !ok {
			t.Errorf("expected alias %q to resolve", alias)
		}
	}
}

func TestText(t *testing.T) {
	text, err := spdx.Text("MIT")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if len(text) == 0 {
		t.Error("expected MIT text")
	}
	if _, err := spdx.Text("GPL-3.0"); !errors.Is(err, spdx.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// The embedded snapshot is regenerated with go generate; it must hold
// exactly what the raw texts build to.
func TestSnapshotMatchesTexts(t *testing.T) {
	loaded, err := snapshot.Load(spdx.Snapshot())
	if err != nil {
		t.Fatalf("Load embedded snapshot: %v (run go generate ./internal/spdx)", err)
	}
	built, err := corpus.FromFS(spdx.FS())
	if err != nil {
		t.Fatalf("FromFS: %v", err)
	}
	if diff := cmp.Diff(built.Names(), loaded.Names()); diff != "" {
		t.Fatalf("snapshot is stale, names (-texts +snapshot):\n%s", diff)
	}
	for i := 0; i < built.Len(); i++ {
		a, b := built.At(i), loaded.At(i)
		if diff := cmp.Diff(a.Text().Lines(), b.Text().Lines()); diff != "" {
			t.Errorf("snapshot is stale, %s text (-texts +snapshot):\n%s", a.Name(), diff)
		}
		if diff := cmp.Diff(a.Aliases(), b.Aliases()); diff != "" {
			t.Errorf("snapshot is stale, %s aliases (-texts +snapshot):\n%s", a.Name(), diff)
		}
	}
}
