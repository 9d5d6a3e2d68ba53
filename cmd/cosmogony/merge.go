package main

import (
	"flag"
	"fmt"
	"log"

	"cosmogony/internal/merge"
)

// runMerge implements the `merge` subcommand (spec.md §6):
//
//	merge <input.jsonl>... -o <out.jsonl>
func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	output := fs.String("o", "", "merged output path")

	// The flag package stops at the first positional argument, so parse
	// repeatedly to accept -o after the inputs as well as before them.
	var inputs []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return usageError(err.Error())
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		inputs = append(inputs, rest[0])
		rest = rest[1:]
	}
	if len(inputs) < 1 {
		return usageError("merge: at least one input.jsonl is required")
	}
	if *output == "" {
		return usageError("merge: -o <out.jsonl> is required")
	}

	res, err := merge.Files(inputs)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}

	if err := merge.WriteJSONL(*output, res); err != nil {
		return fmt.Errorf("writing merged output: %w", err)
	}

	log.Printf("merged %d inputs into %d zones (%d duplicates dropped), wrote %s",
		len(inputs), len(res.Zones), res.DedupDropped, *output)
	return nil
}
