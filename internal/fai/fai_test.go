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

package fai

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	const input = "chr1\t1000\t5\t60\t61\n" +
		"chr2\t327\t1027\t60\t61\n" +
		"scaffold_7\t99\t1365\t50\t52\n"

	index, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	if got, want := index.Len(), 3; got != want {
		t.Fatalf("Wrong contig count: got %d, want %d", got, want)
	}
	if got, want := index.Names(), []string{"chr1", "chr2", "scaffold_7"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrong name order: got %v, want %v", got, want)
	}

	entry, ok := index.Get("scaffold_7")
	if !ok {
		t.Fatalf("Get(scaffold_7) not found")
	}
	want := Entry{Name: "scaffold_7", Length: 99, Offset: 1365, BasesPerLine: 50, BytesPerLine: 52}
	if entry != want {
		t.Fatalf("Wrong entry: got %+v, want %+v", entry, want)
	}

	if _, ok := index.Get("chrMT"); ok {
		t.Fatalf("Get(chrMT) unexpectedly found")
	}
}

func TestRead_SkipsBlankLines(t *testing.T) {
	const input = "chr1\t1000\t5\t60\t61\n\n\nchr2\t327\t1027\t60\t61\n"

	index, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if got, want := index.Len(), 2; got != want {
		t.Fatalf("Wrong contig count: got %d, want %d", got, want)
	}
}

func TestRead_Empty(t *testing.T) {
	index, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	if index.Len() != 0 {
		t.Fatalf("Expected empty index, got %d contigs", index.Len())
	}
}

// A duplicated contig name keeps the metadata of its last record but the
// position of its first in the declared order.
func TestRead_DuplicateContig(t *testing.T) {
	const input = "chrA\t100\t5\t60\t61\n" +
		"chrB\t200\t110\t60\t61\n" +
		"chrA\t300\t320\t50\t51\n"

	index, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	if got, want := index.Names(), []string{"chrA", "chrB"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Wrong name order: got %v, want %v", got, want)
	}

	entry, ok := index.Get("chrA")
	if !ok {
		t.Fatalf("Get(chrA) not found")
	}
	want := Entry{Name: "chrA", Length: 300, Offset: 320, BasesPerLine: 50, BytesPerLine: 51}
	if entry != want {
		t.Fatalf("Wrong entry after duplicate: got %+v, want %+v", entry, want)
	}
}

func TestRead_FormatErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		line  int
	}{
		{"too few fields", "chr1\t1000\t5\t60\n", 1},
		{"too many fields", "chr1\t1000\t5\t60\t61\t62\n", 1},
		{"space separated", "chr1 1000 5 60 61\n", 1},
		{"non-integer length", "chr1\tabc\t5\t60\t61\n", 1},
		{"non-integer offset", "chr1\t1000\tx\t60\t61\n", 1},
		{"empty numeric field", "chr1\t1000\t\t60\t61\n", 1},
		{"empty contig name", "\t1000\t5\t60\t61\n", 1},
		{"zero length", "chr1\t0\t5\t60\t61\n", 1},
		{"negative offset", "chr1\t1000\t-5\t60\t61\n", 1},
		{"zero bases per line", "chr1\t1000\t5\t0\t61\n", 1},
		{"bytes less than bases", "chr1\t1000\t5\t60\t59\n", 1},
		{"error on second line", "chr1\t1000\t5\t60\t61\nchr2\tbad\t5\t60\t61\n", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Expected FormatError, got %v", err)
			}
			if formatErr.Line != tc.line {
				t.Fatalf("Wrong line number: got %d, want %d", formatErr.Line, tc.line)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fa.fai")
	if err := os.WriteFile(path, []byte("chr1\t1000\t5\t60\t61\n"), 0644); err != nil {
		t.Fatalf("Failed to write index file: %v", err)
	}

	index, err := Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	if got, want := index.Len(), 1; got != want {
		t.Fatalf("Wrong contig count: got %d, want %d", got, want)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.fai"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected a missing-file error, got %v", err)
	}
}

func TestWriteTable(t *testing.T) {
	const input = "chr1\t1000\t5\t60\t61\nchr2\t327\t1027\t60\t61\n"

	index, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}

	var buffer bytes.Buffer
	if err := index.WriteTable(&buffer); err != nil {
		t.Fatalf("WriteTable() returned error: %v", err)
	}
	if got := buffer.String(); got != input {
		t.Fatalf("Wrong table: got %q, want %q", got, input)
	}
}
