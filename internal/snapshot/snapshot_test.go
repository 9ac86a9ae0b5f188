// internal/snapshot/snapshot_test.go
package snapshot_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/match"
	"github.com/dsablic/licenseid/internal/normalize"
	"github.com/dsablic/licenseid/internal/snapshot"
	"github.com/dsablic/licenseid/internal/spdx"
)

func builtin(t *testing.T) (*corpus.Store, []byte) {
	t.Helper()
	store, err := spdx.Store()
	if err != nil {
		t.Fatalf("builtin store: %v", err)
	}
	data, err := snapshot.Save(store)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return store, data
}

func wantLoadError(t *testing.T, err error, reason error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", reason)
	}
	var le *snapshot.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if !errors.Is(err, reason) {
		t.Errorf("expected reason %v, got %v", reason, err)
	}
}

func TestRoundTrip(t *testing.T) {
	store, data := builtin(t)
	loaded, err := snapshot.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(store.Names(), loaded.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < store.Len(); i++ {
		a, b := store.At(i), loaded.At(i)
		if !a.Text().Equal(b.Text()) {
			t.Errorf("%s: text changed in round trip", a.Name())
		}
		if diff := cmp.Diff(a.Aliases(), b.Aliases()); diff != "" {
			t.Errorf("%s: aliases mismatch (-want +got):\n%s", a.Name(), diff)
		}
		if a.Fingerprint().Digest() != b.Fingerprint().Digest() || a.Fingerprint().Total() != b.Fingerprint().Total() {
			t.Errorf("%s: fingerprint changed in round trip", a.Name())
		}
	}

	queries := []string{"", "random words about nothing", "Permission is hereby granted, free of charge"}
	for _, id := range spdx.List() {
		text, _ := spdx.Text(id)
		queries = append(queries, text, text[:len(text)/2])
	}
	for _, q := range queries {
		text := normalize.Normalize(q)
		if a, b := match.Analyze(text, store), match.Analyze(text, loaded); a != b {
			t.Errorf("query %.30q: original %v, loaded %v", q, a, b)
		}
	}
}

func TestSaveDeterministic(t *testing.T) {
	_, data := builtin(t)
	loaded, err := snapshot.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, err := snapshot.Save(loaded)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("saving an equivalent store produced different bytes")
	}
}

func TestReadHeader(t *testing.T) {
	_, data := builtin(t)
	h, err := snapshot.ReadHeader(data)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Version != snapshot.Version {
		t.Errorf("expected version %d, got %d", snapshot.Version, h.Version)
	}
	if int(h.Length) != len(data)-snapshot.HeaderSize {
		t.Errorf("expected payload length %d, got %d", len(data)-snapshot.HeaderSize, h.Length)
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		_, err := snapshot.Load(data)
		wantLoadError(t, err, snapshot.ErrTruncated)
	}
}

func TestLoadTruncated(t *testing.T) {
	_, data := builtin(t)
	for _, n := range []int{1, 4, snapshot.HeaderSize - 1, snapshot.HeaderSize, snapshot.HeaderSize + 1, len(data) / 2, len(data) - 1} {
		_, err := snapshot.Load(data[:n])
		wantLoadError(t, err, snapshot.ErrTruncated)
	}
}

func TestLoadBadMagic(t *testing.T) {
	_, data := builtin(t)
	for _, in := range [][]byte{
		[]byte("PK\x03\x04 a zip file"),
		[]byte("{\"json\": true}"),
		append([]byte("XIDC"), data[4:]...),
	} {
		_, err := snapshot.Load(in)
		wantLoadError(t, err, snapshot.ErrBadMagic)
	}
}

func TestLoadVersionMismatch(t *testing.T) {
	_, data := builtin(t)

	bumped := bytes.Clone(data)
	binary.LittleEndian.PutUint16(bumped[4:], snapshot.Version+1)
	_, err := snapshot.Load(bumped)
	wantLoadError(t, err, snapshot.ErrVersion)

	flags := bytes.Clone(data)
	binary.LittleEndian.PutUint16(flags[6:], 0x8001)
	_, err = snapshot.Load(flags)
	wantLoadError(t, err, snapshot.ErrVersion)

	inner, err := snapshot.Encode(snapshot.Document{
		Format:  snapshot.Version + 1,
		Entries: []snapshot.EntryDoc{{Name: "X", Lines: []string{"a b"}, Digest: digest("a b")}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = snapshot.Load(inner)
	wantLoadError(t, err, snapshot.ErrVersion)
}

func TestLoadChecksumMismatch(t *testing.T) {
	_, data := builtin(t)
	flipped := bytes.Clone(data)
	flipped[len(flipped)-3] ^= 0xff
	_, err := snapshot.Load(flipped)
	wantLoadError(t, err, snapshot.ErrChecksum)
}

func TestLoadTrailingBytes(t *testing.T) {
	_, data := builtin(t)
	_, err := snapshot.Load(append(bytes.Clone(data), 0))
	wantLoadError(t, err, snapshot.ErrCorrupt)
}

func TestLoadCorruptPayload(t *testing.T) {
	_, err := snapshot.Load(snapshot.Frame([]byte("definitely not zstd")))
	wantLoadError(t, err, snapshot.ErrCorrupt)
}

func TestLoadEntryDigestMismatch(t *testing.T) {
	data, err := snapshot.Encode(snapshot.Document{
		Format:  snapshot.Version,
		Entries: []snapshot.EntryDoc{{Name: "X", Lines: []string{"a b"}, Digest: digest("a c")}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = snapshot.Load(data)
	wantLoadError(t, err, snapshot.ErrChecksum)
	if !strings.Contains(err.Error(), `"X"`) {
		t.Errorf("error should name the entry, got %v", err)
	}
}

func TestLoadInvalidCorpus(t *testing.T) {
	tests := []struct {
		name    string
		entries []snapshot.EntryDoc
		cause   error
	}{
		{"no entries", nil, corpus.ErrEmptyCorpus},
		{"duplicate", []snapshot.EntryDoc{
			{Name: "X", Lines: []string{"a b"}, Digest: digest("a b")},
			{Name: "X", Lines: []string{"c d"}, Digest: digest("c d")},
		}, corpus.ErrDuplicateName},
		{"empty text", []snapshot.EntryDoc{{Name: "X", Digest: digest("")}}, corpus.ErrEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := snapshot.Encode(snapshot.Document{Format: snapshot.Version, Entries: tt.entries})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			_, err = snapshot.Load(data)
			wantLoadError(t, err, snapshot.ErrInvalidCorpus)
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestLoadIdempotent(t *testing.T) {
	_, data := builtin(t)
	a, err := snapshot.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := snapshot.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a == b {
		t.Error("Load should return a new store each time")
	}
	if diff := cmp.Diff(a.Names(), b.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func digest(s string) uint64 {
	return corpus.Digest(normalize.Normalize(s))
}
