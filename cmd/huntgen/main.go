package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/pipeline"
)

const version = "1.0.0"

// Exit codes per the host contract.
const (
	exitOK        = 0
	exitFatal     = 1
	exitBadInput  = 2
	exitCancelled = 3
)

// CLI flags
var (
	gridPath    = flag.String("grid", "", "Path to the ASCII mock-up file (required)")
	optionsPath = flag.String("options", "", "Path to a YAML options file")
	generator   = flag.String("generator", "text", "Generator back-end: text, json, or svg")
	outputPath  = flag.String("output", "", "Write the artifact to this file instead of stdout")
	strict      = flag.Bool("strict", false, "Treat bracket misalignment as fatal")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
	versionF    = flag.Bool("version", false, "Print version and exit")
)

// patternPaths collects repeated -patterns flags in declaration order.
type patternPaths []string

func (p *patternPaths) String() string { return fmt.Sprint([]string(*p)) }

func (p *patternPaths) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var patterns patternPaths
	flag.Var(&patterns, "patterns", "Path to a .hunt pattern file (repeatable)")
	flag.Parse()

	if *versionF {
		fmt.Printf("huntgen version %s\n", version)
		os.Exit(exitOK)
	}

	if *gridPath == "" || len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -grid and at least one -patterns flag are required")
		flag.Usage()
		os.Exit(exitBadInput)
	}

	os.Exit(run(patterns))
}

func run(patterns patternPaths) int {
	opts := pipeline.DefaultOptions()
	if *optionsPath != "" {
		loaded, err := pipeline.LoadOptions(*optionsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitBadInput
		}
		opts = *loaded
	}
	if *strict {
		opts.StrictAlignment = true
	}
	if *generator != "" {
		opts.Generator = *generator
	}
	if *verbose {
		opts.LogLevel = "debug"
	}

	gridData, err := os.ReadFile(*gridPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read grid: %v\n", err)
		return exitBadInput
	}

	var sources []string
	for _, path := range patterns {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read patterns: %v\n", err)
			return exitBadInput
		}
		sources = append(sources, string(data))
	}

	p, err := pipeline.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitBadInput
	}

	start := time.Now()
	res, err := p.Run(context.Background(), grid.FromString(string(gridData)), sources)

	if res != nil && (*verbose || res.Outcome != diag.OutcomeOK) {
		for _, d := range res.Diagnostics {
			fmt.Fprintln(os.Stderr, d.String())
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrCancelled):
			return exitCancelled
		case errors.Is(err, pipeline.ErrBadInput):
			return exitBadInput
		default:
			return exitFatal
		}
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "recognized %d components in %v (outcome: %s)\n",
			res.Model.Len(), time.Since(start).Round(time.Millisecond), res.Outcome)
		for _, st := range res.Stats.Stages {
			fmt.Fprintf(os.Stderr, "  %-20s %v\n", st.Name, st.Duration.Round(time.Microsecond))
		}
	}

	if res.Artifact != nil {
		if *outputPath != "" {
			if err := os.MkdirAll(filepath.Dir(*outputPath), 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return exitFatal
			}
			if err := os.WriteFile(*outputPath, []byte(res.Artifact.Text), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return exitFatal
			}
			if *verbose {
				fmt.Fprintf(os.Stderr, "wrote %s artifact to %s\n", res.Artifact.Framework, *outputPath)
			}
		} else {
			fmt.Print(res.Artifact.Text)
		}
	}
	return exitOK
}
