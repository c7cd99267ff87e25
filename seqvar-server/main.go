// This binary serves indexed FASTA queries over HTTP from a directory of
// sequence files and their .fai indexes.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/zyhuang/seqvar/api"
)

var (
	port      = flag.Int("port", 8080, "HTTP service port")
	directory = flag.String("directory", "", "directory that contains fasta/fai files")
)

func main() {
	flag.Parse()

	if *directory == "" {
		log.Fatalf("You must specify -directory.")
	}

	router := gin.Default()
	router.Use(api.RequestID())
	router.GET("/refs/:id", api.NewRefsHandler(*directory))
	router.GET("/sequence/:id", api.NewSequenceHandler(*directory))

	if err := router.Run(fmt.Sprintf(":%d", *port)); err != nil {
		log.Fatalf("HTTP server returned an error: %v", err)
	}
}
