// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fasta provides indexed random access into line-wrapped FASTA
// sequence files.
//
// A query translates a 1-based inclusive genomic coordinate range into the
// minimal byte range of the underlying file, performs one bounded read,
// strips the interleaved line terminators and returns the sequence.  The
// file itself is never scanned or loaded whole, so sequence files larger
// than memory are fine.
package fasta

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/zyhuang/seqvar/internal/fai"
	"github.com/zyhuang/seqvar/internal/genomics"
	"github.com/zyhuang/seqvar/internal/storage"
)

// IndexSuffix is appended to a sequence file path to name its index.
const IndexSuffix = ".fai"

// ErrUnsupportedName reports a sequence file path without a recognized
// FASTA extension.
var ErrUnsupportedName = errors.New("sequence file must have a .fa or .fasta extension")

// LookupError reports a query against a contig that the index does not
// contain.  No read is attempted for such a query.
type LookupError struct {
	// Contig is the unknown contig name.
	Contig string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("contig %q is not present in the index", e.Contig)
}

// Reader provides random access to regions of an indexed sequence file.
//
// A Reader is safe for concurrent use: each query opens its own bounded
// range reader over the underlying object, so queries never share a file
// cursor.
type Reader struct {
	object storage.Object
	index  *fai.Index
}

// NewReader returns a Reader that resolves queries over object using the
// provided index.
func NewReader(object storage.Object, index *fai.Index) *Reader {
	return &Reader{object: object, index: index}
}

// Open opens the sequence file at path together with its sibling index at
// path + ".fai".  The path must end in .fa or .fasta and may be a local
// file or a gs:// object.
func Open(ctx context.Context, path string) (*Reader, error) {
	if !strings.HasSuffix(path, ".fa") && !strings.HasSuffix(path, ".fasta") {
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedName)
	}
	object, err := storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening sequence file: %v", err)
	}
	index, err := LoadIndex(ctx, path+IndexSuffix)
	if err != nil {
		return nil, err
	}
	return NewReader(object, index), nil
}

// LoadIndex reads the index file at path, which may be a local file or a
// gs:// object.
func LoadIndex(ctx context.Context, path string) (*fai.Index, error) {
	object, err := storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %v", err)
	}
	return LoadIndexFrom(ctx, object, path)
}

// LoadIndexFrom reads the index data held by object; path is used for
// diagnostics only.  An index with no contigs is not an error, but it is
// logged as a warning since it usually means the sequence file has not
// been indexed yet.
func LoadIndexFrom(ctx context.Context, object storage.Object, path string) (*fai.Index, error) {
	data, err := storage.ReadAll(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("reading index %q: %w", path, err)
	}
	index, err := fai.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing index %q: %w", path, err)
	}
	if index.Len() == 0 {
		log.Printf("Warning: no contigs found in index %q", path)
	} else {
		log.Printf("Loaded %d contigs from %q", index.Len(), path)
	}
	return index, nil
}

// Index returns the index the reader resolves queries against.
func (r *Reader) Index() *fai.Index {
	return r.index
}

// Query returns the sequence covered by region together with the canonical
// "contig:start-end" form of the range that was read.
//
// A whole-contig region is normalized to [1, contig length] before
// validation.  Coordinate violations return a genomics.RangeError along
// with the attempted region string so the caller can report it; no
// sequence is returned.  A short read is an error, never a truncated
// result.
func (r *Reader) Query(ctx context.Context, region genomics.Region) (string, string, error) {
	entry, ok := r.index.Get(region.Contig)
	if !ok {
		return region.String(), "", &LookupError{Contig: region.Contig}
	}

	start, end := region.Start, region.End
	if region.Whole() {
		start, end = 1, entry.Length
	}
	label := fmt.Sprintf("%s:%d-%d", region.Contig, start, end)

	if start < 1 || start > entry.Length {
		return label, "", genomics.NewRangeError(
			"query start %d must be within [1,%d] for contig %s", start, entry.Length, region.Contig)
	}
	if end < 1 || end > entry.Length {
		return label, "", genomics.NewRangeError(
			"query end %d must be within [1,%d] for contig %s", end, entry.Length, region.Contig)
	}
	if end < start {
		return label, "", genomics.NewRangeError(
			"query region %s is empty or of negative length", label)
	}

	first, _, count := entry.ByteRange(start-1, end-1)
	data, err := readRange(ctx, r.object, first, count)
	if err != nil {
		return label, "", err
	}
	return label, string(stripTerminators(data, start-1, entry)), nil
}

// readRange reads exactly count bytes starting at offset.  The range
// reader is scoped to the single call, so concurrent queries never share
// a cursor.
func readRange(ctx context.Context, object storage.Object, offset, count int64) ([]byte, error) {
	reader, err := object.NewRangeReader(ctx, offset, count)
	if err != nil {
		return nil, fmt.Errorf("opening sequence range: %w", err)
	}
	defer reader.Close()

	data := make([]byte, count)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("reading %d bytes at offset %d: %w", count, offset, err)
	}
	return data, nil
}

// stripTerminators removes the line terminator bytes interleaved in data,
// which holds raw file bytes beginning at the 0-based base position start
// of the contig described by entry.  The terminator width is derived from
// the entry's line geometry, so multi-byte terminators work unchanged.
func stripTerminators(data []byte, start int64, entry fai.Entry) []byte {
	width := entry.TerminatorWidth()
	if width == 0 {
		return data
	}
	sequence := make([]byte, 0, len(data))
	column := start % entry.BasesPerLine
	for i := int64(0); i < int64(len(data)); {
		bases := entry.BasesPerLine - column
		if remaining := int64(len(data)) - i; bases > remaining {
			bases = remaining
		}
		sequence = append(sequence, data[i:i+bases]...)
		i += bases + width
		column = 0
	}
	return sequence
}

// Query opens the sequence file at path and resolves a single region
// against the provided index.  It is a convenience wrapper over
// NewReader for callers that already hold a loaded index.
func Query(ctx context.Context, path string, index *fai.Index, region genomics.Region) (string, string, error) {
	object, err := storage.Open(ctx, path)
	if err != nil {
		return region.String(), "", fmt.Errorf("opening sequence file: %v", err)
	}
	return NewReader(object, index).Query(ctx, region)
}
