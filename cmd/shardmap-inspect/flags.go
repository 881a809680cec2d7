package main

// flags.go parses the inspector's command-line surface into an options
// struct. The teacher's own cmd/arena-cache-inspect never shipped this file
// (main.go there already referenced parseFlags/options without defining
// them); flags.go fills that gap with the flag package the rest of the
// teacher's CLI tooling uses (tools/dataset_gen.go's flat flag definitions),
// here as *Var calls on a dedicated FlagSet.
//
// © 2025 shardmap authors. MIT License.

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type options struct {
	target           string
	json             bool
	watch            bool
	interval         time.Duration
	heapProfile      string
	goroutineProfile string
	version          bool
}

func parseFlags() *options {
	opts := &options{}

	fs := flag.NewFlagSet("shardmap-inspect", flag.ExitOnError)
	fs.StringVar(&opts.target, "target", "http://localhost:6060", "base URL of the target process")
	fs.BoolVar(&opts.json, "json", false, "print the raw JSON snapshot instead of a pretty summary")
	fs.BoolVar(&opts.watch, "watch", false, "poll the snapshot endpoint repeatedly")
	fs.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval when -watch is set")
	fs.StringVar(&opts.heapProfile, "heap-profile", "", "download the heap profile to this path and exit")
	fs.StringVar(&opts.goroutineProfile, "goroutine-profile", "", "download the goroutine profile to this path and exit")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "shardmap-inspect:", err)
		os.Exit(2)
	}
	return opts
}
