package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"cosmogony/internal/config"
	"cosmogony/internal/encode"
	"cosmogony/internal/pipeline"
	"cosmogony/internal/ruleset"
)

// runGenerate implements the `generate` subcommand (spec.md §6):
//
//	generate -i <osm.pbf> [-o <out>] [--country-code <ISO2>] [--filter-langs <lang,...>]
//	         [--disable-voronoi] [--french-id-fix]
//
// --country-code, --filter-langs, --disable-voronoi and --french-id-fix
// are accepted for CLI-surface compatibility but are no-ops here: none of
// them are load-bearing for the zone-building/hierarchy core this binary
// implements (voronoi tiling and the legacy French-id workaround belong
// to a tiling subsystem out of scope per spec.md §1).
func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	input := fs.String("i", "", "path to an OSM PBF extract")
	output := fs.String("o", "", "output path; extension selects the encoding (.json/.jsonl/.jsonl.gz/.json.gz)")
	fs.String("country-code", "", "restrict processing to a single ISO-3166-1 alpha-2 country (unused)")
	fs.String("filter-langs", "", "comma-separated list of name:<lang> tags to keep (unused)")
	fs.Bool("disable-voronoi", false, "unused, accepted for CLI compatibility")
	fs.Bool("french-id-fix", false, "unused, accepted for CLI compatibility")
	logFile := fs.String("log-file", "", "override the configured log file path")

	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *input == "" {
		return usageError("generate: -i <osm.pbf> is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	out := *output
	if out == "" {
		out = cfg.DefaultOutput
	}

	if err := setupLogging(*logFile, cfg.LogFile); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	store, err := ruleset.Load()
	if err != nil {
		return fmt.Errorf("loading country rulesets: %w", err)
	}

	result, err := pipeline.Run(*input, store, pipeline.Options{
		Workers:           cfg.Workers,
		PreparedCacheSize: cfg.PreparedCacheSize,
	})
	if err != nil {
		return err
	}

	log.Printf("writing %d zones to %s", len(result.Zones), out)
	if err := encode.WriteToFile(out, result.Zones, result.Stats); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Printf("done: %d zones, %d without country, %d cycles broken",
		len(result.Zones), result.Stats.ZoneWithoutCountry, result.Stats.CyclesBroken)
	return nil
}

func setupLogging(override, configured string) error {
	path := override
	if path == "" {
		path = configured
	}
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return nil
}
