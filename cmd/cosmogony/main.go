// Command cosmogony builds a typed, hierarchical atlas of administrative
// zones from an OpenStreetMap PBF extract, or merges previously-built
// atlases together.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	args := os.Args[1:]
	sub := "generate"
	if len(args) > 0 && !looksLikeFlag(args[0]) {
		sub = args[0]
		args = args[1:]
	}

	var err error
	switch sub {
	case "generate":
		err = runGenerate(args)
	case "merge":
		err = runMerge(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q (want generate or merge)\n", sub)
		os.Exit(2)
	}

	if err != nil {
		if _, ok := err.(usageError); ok {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

func looksLikeFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

// usageError marks a CLI misuse (bad flags, missing required arguments) so
// main can exit 2 instead of 1, per spec.md §6's exit code contract.
type usageError string

func (e usageError) Error() string { return string(e) }
