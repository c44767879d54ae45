package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/hyperjump/kyoshi/internal/metrics"
)

// roleFlagSet holds the parsed flags shared by the four service roles.
type roleFlagSet struct {
	configPath *string
	port       *int
	debug      *bool
}

func roleFlags(role string) roleFlagSet {
	fs := flag.NewFlagSet(role, flag.ExitOnError)
	out := roleFlagSet{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		port:       fs.Int("port", 0, "override the configured listen port"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
	}
	_ = fs.Parse(os.Args[2:])
	return out
}

// runReport reads the metrics log and prints per-agent summaries.
func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	entries, err := metrics.Load(cfg.Metrics.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read metrics log %s: %v\n", cfg.Metrics.LogPath, err)
		os.Exit(1)
	}
	summaries := metrics.Aggregate(entries)

	agents := make([]string, 0, len(summaries))
	for a := range summaries {
		agents = append(agents, a)
	}
	sort.Strings(agents)

	switch *outputFormat {
	case "json":
		ordered := make([]metrics.Summary, 0, len(agents))
		for _, a := range agents {
			ordered = append(ordered, summaries[a])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ordered); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, a := range agents {
			s := summaries[a]
			fmt.Printf("%s\n", s.Agent)
			fmt.Printf("  runs:          %d\n", s.Total)
			fmt.Printf("  reliability:   %.2f\n", s.Reliability)
			fmt.Printf("  json_valid:    %.2f\n", s.JSONValid)
			if s.MeanQuality > 0 {
				fmt.Printf("  mean_quality:  %.1f\n", s.MeanQuality)
			}
			if s.MeanAcc > 0 {
				fmt.Printf("  mean_accuracy: %.2f\n", s.MeanAcc)
			}
			fmt.Printf("  mean_latency:  %.0fms\n", s.MeanLatency)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}
