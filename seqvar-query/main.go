// Copyright 2017 Google Inc.
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

// This binary queries an indexed FASTA file (local or in GCS) and prints
// the sequence covered by a genomic region.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"

	"github.com/zyhuang/seqvar/internal/fai"
	"github.com/zyhuang/seqvar/internal/fasta"
	"github.com/zyhuang/seqvar/internal/genomics"
	"github.com/zyhuang/seqvar/internal/storage"
)

var (
	fastaPath = flag.String("f", "", "input FASTA file (local path or gs:// object)")
	contig    = flag.String("c", "", "contig/chromosome name")
	start     = flag.Int64("a", 1, "starting position, 1-based inclusive")
	end       = flag.Int64("b", 0, "ending position, 1-based inclusive (default: contig length)")

	token  = flag.String("token", "", "OAuth2 bearer token for gs:// reads")
	public = flag.Bool("public", false, "read gs:// objects without authentication")

	list = flag.Bool("list", false, "print the index table and exit")

	profileCPU = flag.Bool("profile", false, "write a CPU profile for this run")
)

func main() {
	flag.Parse()

	if *profileCPU {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *fastaPath == "" || (*contig == "" && !*list) {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	object, err := open(ctx, *fastaPath)
	if err != nil {
		log.Fatalf("Failed to open sequence file: %v", err)
	}
	indexObject, err := open(ctx, *fastaPath+fasta.IndexSuffix)
	if err != nil {
		log.Fatalf("Failed to open index file: %v", err)
	}
	index, err := fasta.LoadIndexFrom(ctx, indexObject, *fastaPath+fasta.IndexSuffix)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}

	if *list {
		if err := index.WriteTable(os.Stdout); err != nil {
			log.Fatalf("Failed to print index table: %v", err)
		}
		return
	}

	region, err := makeRegion(index)
	if err != nil {
		log.Fatalf("Invalid query region: %v", err)
	}

	label, sequence, err := fasta.NewReader(object, index).Query(ctx, region)
	if err != nil {
		log.Fatalf("Query %s failed: %v", label, err)
	}

	fmt.Printf("> %s\n%s\n", label, sequence)
}

// makeRegion builds the query region from the position flags.  A missing
// end position runs the query to the end of the contig, which requires
// the contig to be present in the index.
func makeRegion(index *fai.Index) (genomics.Region, error) {
	if *end != 0 {
		return genomics.Range(*contig, *start, *end)
	}
	entry, ok := index.Get(*contig)
	if !ok {
		return genomics.Empty(), fmt.Errorf("contig %q is not present in the index", *contig)
	}
	return genomics.Range(*contig, *start, entry.Length)
}

func open(ctx context.Context, path string) (storage.Object, error) {
	switch {
	case *token != "":
		return storage.OpenWithBearerToken(ctx, path, *token)
	case *public:
		return storage.OpenPublic(ctx, path)
	default:
		return storage.Open(ctx, path)
	}
}
