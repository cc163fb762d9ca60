//go:build ignore

// Command read_report prints an archived subscription failure report.
//
//	go run ./scripts/read_report.go <report.json.gz>
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"storefront/internal/archive"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: read_report <report.json.gz>")
		os.Exit(2)
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open report: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	var report map[string]any
	if err := archive.Decode(file, &report); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read report: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to format report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
