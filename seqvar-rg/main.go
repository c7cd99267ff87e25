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

// This binary derives a SAM read-group descriptor string from a FASTQ
// file by sampling its read identifiers.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zyhuang/seqvar/internal/fastq"
)

var (
	fastqPath = flag.String("f", "", "input FASTQ file (optionally gzip-compressed)")
	sample    = flag.String("s", "", "sample name (default: first dot-field of the file name)")
	numLines  = flag.Int("n", 1000, "number of FASTQ lines to sample, 0 for all")
	platform  = flag.String("platform", fastq.DefaultPlatform, "sequencing platform for the PL field")
)

func main() {
	flag.Parse()

	if *fastqPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	readGroup, err := fastq.ReadGroup(*fastqPath, *sample, *numLines, *platform)
	if err != nil {
		log.Fatalf("Failed to derive read group: %v", err)
	}

	fmt.Println(readGroup)
}
