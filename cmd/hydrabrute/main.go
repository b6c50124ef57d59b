// Command hydrabrute runs one subdomain enumeration scan: it crafts raw
// DNS queries for every label in a dictionary against every target root
// domain, correlates responses off the wire, and writes the discovered
// names to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jroosing/hydrabrute/internal/collab"
	"github.com/jroosing/hydrabrute/internal/logging"
	"github.com/jroosing/hydrabrute/internal/scan"
)

func main() {
	var (
		roots        = flag.String("roots", "", "comma-separated target root domains (required)")
		labelFile    = flag.String("labels", "", "path to a newline-delimited label file; built-in list used if empty")
		resolvers    = flag.String("resolvers", "", "comma-separated resolver IPv4 addresses; default set used if empty")
		iface        = flag.String("interface", "", "network interface name; auto-detected if empty")
		bandwidth    = flag.String("bandwidth", "", "max send bandwidth, e.g. 100K, 1M, 2.5G; auto-detected from the interface if empty")
		skipWildcard = flag.Bool("skip-wildcard", false, "skip wildcard probing and suppression")
		silent       = flag.Bool("silent", false, "suppress progress logging")
		jsonOut      = flag.Bool("json", false, "write results as JSON instead of plain text")
		logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
		structured   = flag.Bool("log-json", false, "emit structured JSON logs instead of text")
	)
	flag.Parse()

	if *roots == "" {
		fmt.Fprintln(os.Stderr, "hydrabrute: -roots is required")
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:            *logLevel,
		Structured:       *structured,
		StructuredFormat: "json",
	})

	cfg := scan.Config{
		TargetRoots:  splitCSV(*roots),
		LabelFile:    *labelFile,
		Resolvers:    splitCSV(*resolvers),
		Interface:    *iface,
		Bandwidth:    *bandwidth,
		SkipWildcard: *skipWildcard,
		Silent:       *silent,
		Logger:       logger,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := scan.Run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hydrabrute: %v\n", err)
		os.Exit(1)
	}

	var sink collab.ResultSink
	if *jsonOut {
		sink = collab.JSONResultSink{Out: os.Stdout}
	} else {
		sink = collab.PlainTextResultSink{Out: os.Stdout}
	}
	if err := sink.Write(ctx, result.Names, result.Summary); err != nil {
		fmt.Fprintf(os.Stderr, "hydrabrute: write results: %v\n", err)
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
