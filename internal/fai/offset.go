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

// TerminatorWidth returns the number of line-terminator bytes at the end
// of each full sequence line.
func (e Entry) TerminatorWidth() int64 {
	return e.BytesPerLine - e.BasesPerLine
}

// offset returns the file offset of the 0-based base position p.  Every
// full line of BasesPerLine bases consumes BytesPerLine bytes, so the
// p/BasesPerLine complete lines before p each contribute the terminator
// width on top of their bases.
func (e Entry) offset(p int64) int64 {
	return e.Offset + p + e.TerminatorWidth()*(p/e.BasesPerLine)
}

// ByteRange maps the 0-based inclusive base positions [start, end] to the
// inclusive file offsets [first, last] of the corresponding sequence
// bytes, along with the number of bytes to read, last - first + 1.  The
// byte count includes any line terminators interior to the range; it is
// derived from the two endpoint offsets and never from an assumed uniform
// line width, so a short final line needs no special case.
func (e Entry) ByteRange(start, end int64) (first, last, count int64) {
	first = e.offset(start)
	last = e.offset(end)
	return first, last, last - first + 1
}
