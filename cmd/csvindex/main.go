// Command csvindex appends a 1-based row index column to a CSV file.
//
// Usage:
//
//	csvindex seq.d3.csv                 # rewrite in place
//	csvindex -o indexed.csv seq.d3.csv  # leave the source untouched
//	csvindex hierarchy -o hierarchy.json seq.d3.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "csvindex: %v\n", err)
		stop()
		os.Exit(1)
	}
}
