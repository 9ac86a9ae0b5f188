// internal/snapshot/snapshot.go

// Package snapshot encodes a corpus store to a compact, versioned binary
// form and decodes it back.
//
// A snapshot is a fixed 24-byte little-endian header followed by a payload:
//
//	offset size field
//	0      4    magic "LIDC"
//	4      2    format version
//	6      2    codec flags (bit 0: zstd payload)
//	8      8    payload length
//	16     8    xxhash64 of payload
//
// The payload is a zstd-compressed CBOR document holding, per entry, the
// name, aliases, normalized lines and the digest of the normalized text.
// Bigram fingerprints are rebuilt from the lines on load.
package snapshot

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/normalize"
)

const (
	// Magic identifies snapshot bytes.
	Magic = "LIDC"
	// Version is the format version written by Save and accepted by Load.
	Version uint16 = 1

	// HeaderSize is the length of the fixed header.
	HeaderSize = 24

	flagZstd uint16 = 1 << 0

	// maxDecoded bounds the decompressed payload size.
	maxDecoded = 256 << 20
)

// Header is the fixed prefix of a snapshot.
type Header struct {
	Version  uint16
	Flags    uint16
	Length   uint64
	Checksum uint64
}

type document struct {
	Format  uint16     `cbor:"1,keyasint"`
	Entries []entryDoc `cbor:"2,keyasint"`
}

type entryDoc struct {
	Name    string   `cbor:"1,keyasint"`
	Aliases []string `cbor:"2,keyasint,omitempty"`
	Lines   []string `cbor:"3,keyasint"`
	Digest  uint64   `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Save encodes store. Equivalent stores always encode to identical bytes.
func Save(store *corpus.Store) ([]byte, error) {
	doc := document{Format: Version, Entries: make([]entryDoc, store.Len())}
	for i := range doc.Entries {
		e := store.At(i)
		doc.Entries[i] = entryDoc{
			Name:    e.Name(),
			Aliases: e.Aliases(),
			Lines:   e.Text().Lines(),
			Digest:  e.Fingerprint().Digest(),
		}
	}
	return encode(doc)
}

func encode(doc document) ([]byte, error) {
	raw, err := encMode.Marshal(doc)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	payload := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return frame(payload), nil
}

func frame(payload []byte) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(payload))
	copy(out, Magic)
	binary.LittleEndian.PutUint16(out[4:], Version)
	binary.LittleEndian.PutUint16(out[6:], flagZstd)
	binary.LittleEndian.PutUint64(out[8:], uint64(len(payload)))
	binary.LittleEndian.PutUint64(out[16:], xxhash.Sum64(payload))
	return append(out, payload...)
}

// ReadHeader decodes and validates the fixed header of data without
// touching the payload.
func ReadHeader(data []byte) (Header, error) {
	if len(data) == 0 {
		return Header{}, loadErr(ErrTruncated, "no data")
	}
	n := min(len(data), len(Magic))
	if !bytes.Equal(data[:n], []byte(Magic)[:n]) {
		return Header{}, loadErr(ErrBadMagic, "")
	}
	if len(data) < HeaderSize {
		return Header{}, loadErr(ErrTruncated, "header is %d of %d bytes", len(data), HeaderSize)
	}
	h := Header{
		Version:  binary.LittleEndian.Uint16(data[4:]),
		Flags:    binary.LittleEndian.Uint16(data[6:]),
		Length:   binary.LittleEndian.Uint64(data[8:]),
		Checksum: binary.LittleEndian.Uint64(data[16:]),
	}
	if h.Version != Version {
		return h, loadErr(ErrVersion, "got version %d, want %d", h.Version, Version)
	}
	if h.Flags != flagZstd {
		return h, loadErr(ErrVersion, "unknown codec flags %#x", h.Flags)
	}
	return h, nil
}

// Load decodes a snapshot into a new store. Every failure is a *LoadError.
// Loading has no side effects; the same bytes always yield an equivalent
// store.
func Load(data []byte) (*corpus.Store, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[HeaderSize:]
	switch {
	case uint64(len(payload)) < h.Length:
		return nil, loadErr(ErrTruncated, "payload is %d of %d bytes", len(payload), h.Length)
	case uint64(len(payload)) > h.Length:
		return nil, loadErr(ErrCorrupt, "%d trailing bytes", uint64(len(payload))-h.Length)
	}
	if sum := xxhash.Sum64(payload); sum != h.Checksum {
		return nil, loadErr(ErrChecksum, "got %016x, want %016x", sum, h.Checksum)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecoded),
	)
	if err != nil {
		return nil, loadErr(ErrCorrupt, "%w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, loadErr(ErrCorrupt, "decompress: %w", err)
	}

	var doc document
	if err := decMode.Unmarshal(raw, &doc); err != nil {
		return nil, loadErr(ErrCorrupt, "decode: %w", err)
	}
	if doc.Format != h.Version {
		return nil, loadErr(ErrVersion, "payload version %d in version %d container", doc.Format, h.Version)
	}

	entries := make([]corpus.Entry, len(doc.Entries))
	for i, ed := range doc.Entries {
		text := normalize.FromLines(ed.Lines)
		if d := corpus.Digest(text); d != ed.Digest {
			return nil, loadErr(ErrChecksum, "entry %q: digest %016x, want %016x", ed.Name, d, ed.Digest)
		}
		entries[i] = corpus.NewEntry(ed.Name, text, ed.Aliases...)
	}

	store, err := corpus.NewStore(entries)
	if err != nil {
		return nil, loadErr(ErrInvalidCorpus, "%w", err)
	}
	return store, nil
}
