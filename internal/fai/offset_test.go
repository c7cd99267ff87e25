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

import "testing"

func TestByteRange(t *testing.T) {
	// chr1  1000  5  60  61
	entry := Entry{Name: "chr1", Length: 1000, Offset: 5, BasesPerLine: 60, BytesPerLine: 61}

	testCases := []struct {
		name       string
		start, end int64
		first      int64
		last       int64
		count      int64
	}{
		{"first line", 0, 59, 5, 64, 60},
		{"first base of second line", 60, 60, 66, 66, 1},
		{"span across one newline", 55, 65, 60, 71, 12},
		{"full contig", 0, 999, 5, 1020, 1016},
		{"single base mid line", 30, 30, 35, 35, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first, last, count := entry.ByteRange(tc.start, tc.end)
			if first != tc.first || last != tc.last || count != tc.count {
				t.Fatalf("ByteRange(%d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tc.start, tc.end, first, last, count, tc.first, tc.last, tc.count)
			}
		})
	}
}

func TestByteRange_ZeroOffset(t *testing.T) {
	entry := Entry{Name: "chr1", Length: 1000, Offset: 0, BasesPerLine: 60, BytesPerLine: 61}

	// The first base of the second line sits one terminator byte past its
	// base position.
	first, _, _ := entry.ByteRange(60, 60)
	if first != 61 {
		t.Fatalf("ByteRange(60, 60) starts at %d, want 61", first)
	}
}

func TestByteRange_CRLF(t *testing.T) {
	entry := Entry{Name: "chr1", Length: 150, Offset: 10, BasesPerLine: 60, BytesPerLine: 62}

	if got := entry.TerminatorWidth(); got != 2 {
		t.Fatalf("TerminatorWidth() = %d, want 2", got)
	}

	// Two complete lines precede position 120, each adding two bytes.
	first, last, count := entry.ByteRange(120, 149)
	if want := int64(10 + 120 + 4); first != want {
		t.Fatalf("Wrong first offset: got %d, want %d", first, want)
	}
	if want := int64(10 + 149 + 4); last != want {
		t.Fatalf("Wrong last offset: got %d, want %d", last, want)
	}
	if count != 30 {
		t.Fatalf("Wrong byte count: got %d, want 30", count)
	}
}
