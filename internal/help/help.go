// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"transcript-scrub/internal/redactors"
)

// System provides formatted help output
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("Transcript Scrub - PII Redaction for Call Transcripts")
	fmt.Println("=====================================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  transcript-scrub --input <records.json> --detections <detections.json> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --input\t<path>\tPath to the input records file (JSON array of record objects, required)")
	fmt.Fprintln(w, "  --detections\t<path>\tPath to the detected entities file, aligned with the records (required)")
	fmt.Fprintln(w, "  --output\t<path>\tPath to write redacted records (if not specified, records go to stdout)")
	fmt.Fprintln(w, "  --strategy\t<name>\tDefault redaction strategy: placeholder, mask, partial, remove, hash (default: placeholder)")
	fmt.Fprintln(w, "  --override\t<list>\tPer-type strategy overrides, e.g. 'EMAIL=mask,PHONE=partial'")
	fmt.Fprintln(w, "  --fields\t<list>\tComma-separated record fields to scrub (default: sentence,description,notes,comments,transcript)")
	fmt.Fprintln(w, "  --format\t<format>\tSummary format: text, json, yaml (default: text)")
	fmt.Fprintln(w, "  --workers\t<n>\tNumber of parallel workers (default: number of CPUs)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  --verify\t\tRe-scan redacted output for leaked PII and report findings")
	fmt.Fprintln(w, "  --verbose\t\tDisplay per-record detail in the summary")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of each processing stage")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --quiet\t\tSuppress the summary (useful for scripts and CI/CD)")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help information")
	w.Flush()
	fmt.Println()

	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  transcript-scrub --input calls.json --detections pii.json --output clean.json")
	h.colors["example"].Println("  transcript-scrub --input calls.json --detections pii.json --strategy mask --format json")
	h.colors["example"].Println("  transcript-scrub --input calls.json --detections pii.json --override 'PHONE=partial,SSN=partial'")
	fmt.Println()
}

// ShowStrategiesHelp describes the available redaction strategies
func (h *System) ShowStrategiesHelp() {
	h.colors["title"].Println("Redaction Strategies")
	fmt.Println("====================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  placeholder\tReplace with a typed token, e.g. [REDACTED_EMAIL]")
	fmt.Fprintln(w, "  mask\tKeep a short prefix and star the rest, e.g. jo***@email.com")
	fmt.Fprintln(w, "  partial\tKeep a recognizable tail for phones, SSNs and cards, e.g. ***-***-6789")
	fmt.Fprintln(w, "  remove\tDelete the matched text entirely")
	fmt.Fprintln(w, "  hash\tReplace with a stable token, e.g. [EMAIL_a1b2c3d4]")
	w.Flush()
	fmt.Println()

	h.colors["emphasis"].Printf("Known strategies: %v\n", redactors.StrategyNames())
}
