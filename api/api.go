// Package api implements HTTP endpoints for indexed FASTA retrieval on
// top of a directory of sequence files and their .fai indexes.  It is a
// thin caller of the core query engine: all coordinate arithmetic and
// validation happens there.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zyhuang/seqvar/internal/fasta"
	"github.com/zyhuang/seqvar/internal/genomics"
)

// SequenceResponse is the JSON body of a successful sequence query.
type SequenceResponse struct {
	// Region is the canonical "contig:start-end" form of the range read.
	Region string `json:"region"`
	// Sequence is the requested sequence with line wrapping removed.
	Sequence string `json:"sequence"`
}

// RequestID tags every response with a unique X-Request-Id header so that
// client reports can be matched against server logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Id", uuid.New().String())
		c.Next()
	}
}

// NewRefsHandler builds a gin handler that dumps the index table of the
// named sequence file as tab-separated text, one contig per line in
// declared order.
func NewRefsHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		index, err := fasta.LoadIndex(c.Request.Context(), directory+"/"+c.Param("id")+fasta.IndexSuffix)
		if err != nil {
			writeError(c, err)
			return
		}

		var table strings.Builder
		if err := index.WriteTable(&table); err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, table.String())
	}
}

// NewSequenceHandler builds a gin handler that serves sequence queries of
// the form /sequence/:id?contig=NAME&start=N&end=N.  Omitting both start
// and end returns the whole contig; omitting just one substitutes 1 or
// the contig length respectively.
func NewSequenceHandler(directory string) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reader, err := fasta.Open(ctx, directory+"/"+c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		region, err := parseRegion(c, reader)
		if err != nil {
			writeError(c, err)
			return
		}

		label, sequence, err := reader.Query(ctx, region)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, SequenceResponse{Region: label, Sequence: sequence})
	}
}

func parseRegion(c *gin.Context, reader *fasta.Reader) (genomics.Region, error) {
	contig := c.Query("contig")
	if contig == "" {
		return genomics.Region{}, newInvalidInputError("parsing region", errors.New("no contig specified"))
	}

	var (
		start = c.Query("start")
		end   = c.Query("end")
	)
	if start == "" && end == "" {
		region, err := genomics.WholeContig(contig)
		if err != nil {
			return genomics.Region{}, newInvalidInputError("parsing region", err)
		}
		return region, nil
	}

	startPos := int64(1)
	if start != "" {
		n, err := strconv.ParseInt(start, 10, 64)
		if err != nil {
			return genomics.Region{}, newInvalidInputError("parsing start", err)
		}
		startPos = n
	}

	var endPos int64
	if end != "" {
		n, err := strconv.ParseInt(end, 10, 64)
		if err != nil {
			return genomics.Region{}, newInvalidInputError("parsing end", err)
		}
		endPos = n
	} else {
		entry, ok := reader.Index().Get(contig)
		if !ok {
			return genomics.Region{}, &fasta.LookupError{Contig: contig}
		}
		endPos = entry.Length
	}

	region, err := genomics.Range(contig, startPos, endPos)
	if err != nil {
		return genomics.Region{}, err
	}
	return region, nil
}

// apiError is used to capture errors that carry an HTTP status.
type apiError struct {
	name  string
	code  int
	cause error
}

func (err *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %v", err.name, err.code, err.cause)
}

func newInvalidInputError(context string, err error) error {
	return &apiError{"InvalidInput", http.StatusBadRequest, fmt.Errorf("%s: %v", context, err)}
}

// writeError writes a JSON object describing err to the response,
// translating the core error taxonomy into HTTP statuses: unknown contigs
// and missing files are 404s, coordinate violations are 400s, anything
// else is a 500.
func writeError(c *gin.Context, err error) {
	var (
		lookupErr *fasta.LookupError
		rangeErr  *genomics.RangeError
		callerErr *genomics.CallerError
		apiErr    *apiError
	)
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &lookupErr):
		apiErr = &apiError{"NotFound", http.StatusNotFound, err}
	case errors.As(err, &callerErr):
		apiErr = &apiError{"InvalidInput", http.StatusBadRequest, err}
	case errors.As(err, &rangeErr):
		apiErr = &apiError{"InvalidRange", http.StatusBadRequest, err}
	case errors.Is(err, fasta.ErrUnsupportedName):
		apiErr = &apiError{"UnsupportedFormat", http.StatusBadRequest, err}
	case errors.Is(err, os.ErrNotExist):
		apiErr = &apiError{"NotFound", http.StatusNotFound, err}
	default:
		apiErr = &apiError{"InternalError", http.StatusInternalServerError, err}
	}
	c.JSON(apiErr.code, gin.H{
		"error":   apiErr.name,
		"message": fmt.Sprintf("%s: %v", http.StatusText(apiErr.code), apiErr.cause),
	})
}
