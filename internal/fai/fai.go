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

// Package fai contains support for processing the information in a FASTA
// index (.fai) file (http://www.htslib.org/doc/faidx.html).
package fai

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// An index record has five tab-separated columns: name, length, offset,
// bases per line, bytes per line.
const recordFields = 5

// Entry describes the length and byte layout of a single contig inside a
// line-wrapped sequence file.
type Entry struct {
	// Name is the contig name.
	Name string
	// Length is the total number of bases in the contig.
	Length int64
	// Offset is the file offset in bytes of the first sequence byte.
	Offset int64
	// BasesPerLine is the number of bases on each full sequence line.
	BasesPerLine int64
	// BytesPerLine is the number of bytes consumed by each full sequence
	// line, including its line terminator.
	BytesPerLine int64
}

// FormatError reports a malformed index file.  It is fatal to the whole
// load: no partial index is ever returned.
type FormatError struct {
	// Line is the 1-based line number of the offending record.
	Line int
	msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("index line %d: %s", e.Line, e.msg)
}

// Index is an immutable lookup table of index entries keyed by contig
// name.  It also preserves the order in which contigs were declared in the
// index file, independent of lookups.
type Index struct {
	entries map[string]Entry
	names   []string
}

// Read parses index records from r and returns the resulting Index.  Any
// malformed record aborts the whole read with a FormatError.
//
// A contig name that appears more than once keeps the metadata of its last
// record but the position of its first in the declared order.
func Read(r io.Reader) (*Index, error) {
	index := &Index{entries: make(map[string]Entry)}

	scanner := bufio.NewScanner(r)
	var line int
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		entry, err := parseRecord(line, text)
		if err != nil {
			return nil, err
		}
		if _, ok := index.entries[entry.Name]; !ok {
			index.names = append(index.names, entry.Name)
		}
		index.entries[entry.Name] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %v", err)
	}
	return index, nil
}

// Open reads the index file at path.  An index with no contigs is not an
// error, but it is logged as a warning since it usually means the sequence
// file has not been indexed yet.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()

	index, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading index %q: %w", path, err)
	}
	if index.Len() == 0 {
		log.Printf("Warning: no contigs found in index %q", path)
	} else {
		log.Printf("Loaded %d contigs from %q", index.Len(), path)
	}
	return index, nil
}

// Get returns the entry for the named contig.
func (index *Index) Get(name string) (Entry, bool) {
	entry, ok := index.entries[name]
	return entry, ok
}

// Names returns the contig names in the order they were declared in the
// index file.
func (index *Index) Names() []string {
	names := make([]string, len(index.names))
	copy(names, index.names)
	return names
}

// Len returns the number of distinct contigs in the index.
func (index *Index) Len() int {
	return len(index.entries)
}

// WriteTable writes the index as tab-separated text to w, one contig per
// line in declared order, mirroring the on-disk .fai layout.
func (index *Index) WriteTable(w io.Writer) error {
	for _, name := range index.names {
		entry := index.entries[name]
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			entry.Name, entry.Length, entry.Offset, entry.BasesPerLine, entry.BytesPerLine)
		if err != nil {
			return fmt.Errorf("writing index table: %v", err)
		}
	}
	return nil
}

func parseRecord(line int, text string) (Entry, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != recordFields {
		return Entry{}, &FormatError{
			Line: line,
			msg:  fmt.Sprintf("expected %d tab-separated fields, found %d", recordFields, len(fields)),
		}
	}
	if fields[0] == "" {
		return Entry{}, &FormatError{Line: line, msg: "empty contig name"}
	}

	entry := Entry{Name: fields[0]}
	for _, field := range []struct {
		name  string
		value string
		dst   *int64
	}{
		{"length", fields[1], &entry.Length},
		{"offset", fields[2], &entry.Offset},
		{"bases per line", fields[3], &entry.BasesPerLine},
		{"bytes per line", fields[4], &entry.BytesPerLine},
	} {
		n, err := strconv.ParseInt(field.value, 10, 64)
		if err != nil {
			return Entry{}, &FormatError{
				Line: line,
				msg:  fmt.Sprintf("invalid %s %q", field.name, field.value),
			}
		}
		*field.dst = n
	}

	switch {
	case entry.Length <= 0:
		return Entry{}, &FormatError{Line: line, msg: fmt.Sprintf("non-positive contig length %d", entry.Length)}
	case entry.Offset < 0:
		return Entry{}, &FormatError{Line: line, msg: fmt.Sprintf("negative byte offset %d", entry.Offset)}
	case entry.BasesPerLine <= 0:
		return Entry{}, &FormatError{Line: line, msg: fmt.Sprintf("non-positive line base count %d", entry.BasesPerLine)}
	case entry.BytesPerLine < entry.BasesPerLine:
		return Entry{}, &FormatError{
			Line: line,
			msg:  fmt.Sprintf("line byte count %d smaller than line base count %d", entry.BytesPerLine, entry.BasesPerLine),
		}
	}
	return entry, nil
}
