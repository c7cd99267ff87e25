// Package genomics contains definitions related to genomic data.
package genomics

import (
	"fmt"
	"strings"
)

// WholeSequence marks the Start, End and Length fields of a Region that
// covers an entire contig (or nothing at all, for the empty Region).
const WholeSequence = -1

// Region defines a region of genomic interest on a named contig.
//
// Start and End are 1-based inclusive base positions.  A Region with
// Length == WholeSequence spans the whole contig (or is the empty
// placeholder when Contig is also unset).  Construct regions with Empty,
// WholeContig, SingleBase or Range.
type Region struct {
	// Contig is the name of the contig the region refers to.
	Contig string
	// Start and End are the 1-based inclusive range endpoints.  Both are
	// WholeSequence when the range is unspecified.
	Start, End int64
	// Length is the number of bases in the region, or WholeSequence when
	// the range is unspecified.
	Length int64
}

// CallerError reports invalid use of this API by the calling code.  It is
// never caused by user input: seeing one indicates a bug in the caller.
type CallerError struct {
	msg string
}

func (e *CallerError) Error() string { return e.msg }

// RangeError reports a structurally valid but out-of-range coordinate
// request, such as a non-positive position or an end before its start.
type RangeError struct {
	msg string
}

func (e *RangeError) Error() string { return e.msg }

// NewRangeError returns a RangeError with a formatted message.
func NewRangeError(format string, args ...interface{}) *RangeError {
	return &RangeError{msg: fmt.Sprintf(format, args...)}
}

// Empty returns the empty placeholder Region.  It formats as an empty
// string and matches nothing.
func Empty() Region {
	return Region{Start: WholeSequence, End: WholeSequence, Length: WholeSequence}
}

// WholeContig returns a Region covering the entire named contig.
func WholeContig(contig string) (Region, error) {
	if err := checkContig(contig); err != nil {
		return Empty(), err
	}
	return Region{
		Contig: contig,
		Start:  WholeSequence,
		End:    WholeSequence,
		Length: WholeSequence,
	}, nil
}

// SingleBase returns a Region covering exactly one base.
func SingleBase(contig string, pos int64) (Region, error) {
	if err := checkContig(contig); err != nil {
		return Empty(), err
	}
	if pos <= 0 {
		return Empty(), &RangeError{
			msg: fmt.Sprintf("region position must be >= 1 (found %d)", pos),
		}
	}
	return Region{Contig: contig, Start: pos, End: pos, Length: 1}, nil
}

// Range returns a Region covering the 1-based inclusive range [start, end].
func Range(contig string, start, end int64) (Region, error) {
	if err := checkContig(contig); err != nil {
		return Empty(), err
	}
	if start <= 0 || end <= 0 {
		return Empty(), &RangeError{
			msg: fmt.Sprintf("region start/end positions must be >= 1 (found %d %d)", start, end),
		}
	}
	if end < start {
		return Empty(), &RangeError{
			msg: fmt.Sprintf("region is empty or of negative length (found %d %d)", start, end),
		}
	}
	return Region{Contig: contig, Start: start, End: end, Length: end - start + 1}, nil
}

// Whole reports whether the region leaves its range unspecified, covering
// the whole contig.
func (region Region) Whole() bool {
	return region.Length == WholeSequence
}

// String formats the region as "contig:start-end", or as the bare contig
// name when the range is unspecified.
func (region Region) String() string {
	if region.Length == WholeSequence {
		return region.Contig
	}
	return fmt.Sprintf("%s:%d-%d", region.Contig, region.Start, region.End)
}

func checkContig(contig string) error {
	if strings.ContainsAny(contig, ":-") {
		return &CallerError{
			msg: fmt.Sprintf("contig name %q must not contain ':' or '-'", contig),
		}
	}
	return nil
}
