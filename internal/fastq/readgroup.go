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

// Package fastq derives SAM read-group descriptor strings from FASTQ
// sequencing-read files.
//
// Illumina read identifiers have the form
//
//	@instrument:run:flowcell:lane:tile:x:y
//
// The platform unit is the identifier with the tile and cluster coordinate
// fields removed, and the read-group ID additionally drops the flowcell
// barcode, following the SAM specification and the GATK read-group
// conventions.
package fastq

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPlatform is the PL field value used when none is specified.
const DefaultPlatform = "ILLUMINA"

// Read identifiers end with tile, x and y coordinate fields that vary per
// read and are excluded from the platform unit.
const perReadFields = 3

// ReadGroup samples the identifier lines of the first maxLines lines of
// the FASTQ file at path (decompressing it when the name ends in .gz) and
// returns a read-group string of the form
//
//	@RG	ID:...	PL:...	PU:...	SM:...
//
// A non-positive maxLines samples the whole file.  When sample is empty,
// the sample name defaults to the first dot-separated field of the file
// name.  A file whose reads span multiple flowcells or lanes is logged as
// a warning and the lexicographically smallest platform unit wins.
func ReadGroup(path, sample string, maxLines int, platform string) (string, error) {
	if sample == "" {
		sample = strings.SplitN(filepath.Base(path), ".", 2)[0]
	}
	if platform == "" {
		platform = DefaultPlatform
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening reads file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("opening archive: %v", err)
		}
		defer gz.Close()
		r = gz
	}

	units, err := countPlatformUnits(r, maxLines)
	if err != nil {
		return "", fmt.Errorf("sampling reads from %q: %v", path, err)
	}
	if len(units) == 0 {
		return "", fmt.Errorf("no read identifiers found in %q", path)
	}
	if len(units) > 1 {
		// json.Marshal sorts map keys, giving a stable warning.
		counts, _ := json.Marshal(units)
		log.Printf("Warning: found multiple flowcell/lane identifiers in %q: %s", path, counts)
	}

	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)

	unit := strings.TrimPrefix(names[0], "@")
	fields := strings.Split(unit, ":")

	// The read-group ID is the platform unit without the flowcell barcode,
	// which sits second to last (just before the lane).
	id := fields
	if len(fields) >= 2 {
		id = append(append([]string{}, fields[:len(fields)-2]...), fields[len(fields)-1])
	}

	return fmt.Sprintf("@RG\tID:%s\tPL:%s\tPU:%s\tSM:%s",
		strings.Join(id, ":"), platform, strings.Join(fields, ":"), sample), nil
}

// countPlatformUnits reads identifier lines (every fourth line, starting
// with the first) and counts the reads per platform unit.
func countPlatformUnits(r io.Reader, maxLines int) (map[string]int, error) {
	units := make(map[string]int)

	scanner := bufio.NewScanner(r)
	var line int
	for scanner.Scan() {
		line++
		if maxLines > 0 && line > maxLines {
			break
		}
		if (line-1)%4 != 0 {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		units[platformUnit(fields[0])]++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

// platformUnit strips the per-read fields from a read identifier.
func platformUnit(id string) string {
	fields := strings.Split(id, ":")
	if len(fields) <= perReadFields {
		return ""
	}
	return strings.Join(fields[:len(fields)-perReadFields], ":")
}
