// Command socialmap analyzes social media profiles and their networks.
//
// Usage:
//
//	socialmap analyze github torvalds
//	socialmap -depth 2 -max-nodes 50 map twitter jack
//	socialmap compare jack jack-dorsey-123     # twitter handle, linkedin slug
//	socialmap status
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/socialmap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	ttl := flag.Duration("ttl", 30*time.Minute, "result cache time-to-live")
	depth := flag.Int("depth", 1, "network map traversal depth")
	maxNodes := flag.Int("max-nodes", 50, "network map node ceiling")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx := context.Background()
	analyzer, err := socialmap.New(ctx,
		socialmap.WithLogger(logger),
		socialmap.WithTTL(*ttl),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "analyze":
		if flag.NArg() != 3 {
			fmt.Fprintln(os.Stderr, "Usage: socialmap analyze <platform> <identifier>")
			os.Exit(1)
		}
		result, err := analyzer.AnalyzeProfile(ctx, flag.Arg(1), flag.Arg(2))
		exitOn(err)
		exitOn(outputJSON(result))
	case "map":
		if flag.NArg() != 3 {
			fmt.Fprintln(os.Stderr, "Usage: socialmap [-depth N] [-max-nodes N] map <platform> <identifier>")
			os.Exit(1)
		}
		nm, err := analyzer.NetworkMap(ctx, flag.Arg(1), flag.Arg(2), *depth, *maxNodes)
		exitOn(err)
		exitOn(outputJSON(nm))
	case "compare":
		if flag.NArg() != 3 {
			fmt.Fprintln(os.Stderr, "Usage: socialmap compare <twitter-handle> <linkedin-slug>")
			os.Exit(1)
		}
		result, err := analyzer.CrossPlatformConnections(ctx, flag.Arg(1), flag.Arg(2))
		exitOn(err)
		exitOn(outputJSON(result))
	case "status":
		exitOn(outputJSON(analyzer.ServiceStatus(ctx)))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: socialmap [options] <command> [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  analyze <platform> <identifier>   score a single profile")
	fmt.Fprintln(os.Stderr, "  map <platform> <identifier>       build a connection graph")
	fmt.Fprintln(os.Stderr, "  compare <twitter> <linkedin>      cross-platform consistency check")
	fmt.Fprintln(os.Stderr, "  status                            adapter health")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nSupported platforms:")
	fmt.Fprintln(os.Stderr, "  - GitHub (no auth)")
	fmt.Fprintln(os.Stderr, "  - Twitter/X (connection listing needs TWITTER_* env vars or browser cookies)")
	fmt.Fprintln(os.Stderr, "  - LinkedIn (needs LINKEDIN_* env vars or browser cookies)")
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
