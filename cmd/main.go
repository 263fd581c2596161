// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"transcript-scrub/internal/batch"
	"transcript-scrub/internal/config"
	"transcript-scrub/internal/detector"
	"transcript-scrub/internal/help"
	"transcript-scrub/internal/observability"
	"transcript-scrub/internal/payload"
	"transcript-scrub/internal/redactors"
	"transcript-scrub/internal/version"

	"transcript-scrub/internal/formatters"
	_ "transcript-scrub/internal/formatters/json"
	_ "transcript-scrub/internal/formatters/text"
	_ "transcript-scrub/internal/formatters/yaml"

	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat string
	strategy     string
	overrides    string
	fields       string
	workers      int
	verbose      bool
	debug        bool
	noColor      bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format    string
	strategy  string
	overrides map[string]string
	fields    []string
	workers   int
	verbose   bool
	debug     bool
	noColor   bool
}

// resolveConfiguration resolves final configuration values from config file, profile, and command line flags
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags) (*finalConfiguration, error) {
	final := &finalConfiguration{}

	// Format
	final.format = "text" // default fallback
	if cfg != nil && cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	// Strategy
	final.strategy = "placeholder" // default fallback
	if cfg != nil && cfg.Redaction.Strategy != "" {
		final.strategy = cfg.Redaction.Strategy
	}
	if activeProfile != nil && activeProfile.Redaction.Strategy != "" {
		final.strategy = activeProfile.Redaction.Strategy
	}
	if isFlagSet("strategy") && flags.strategy != "" {
		final.strategy = flags.strategy
	}

	// Per-type strategy overrides
	if cfg != nil && len(cfg.Redaction.Overrides) > 0 {
		final.overrides = cfg.Redaction.Overrides
	}
	if activeProfile != nil && len(activeProfile.Redaction.Overrides) > 0 {
		final.overrides = activeProfile.Redaction.Overrides
	}
	if isFlagSet("override") && flags.overrides != "" {
		overrides, err := parseOverrides(flags.overrides)
		if err != nil {
			return nil, err
		}
		final.overrides = overrides
	}

	// Fields to scrub
	if cfg != nil && len(cfg.Redaction.Fields) > 0 {
		final.fields = cfg.Redaction.Fields
	}
	if activeProfile != nil && len(activeProfile.Redaction.Fields) > 0 {
		final.fields = activeProfile.Redaction.Fields
	}
	if isFlagSet("fields") && flags.fields != "" {
		final.fields = splitList(flags.fields)
	}

	// Workers
	if cfg != nil {
		final.workers = cfg.Defaults.Workers
	}
	if activeProfile != nil && activeProfile.Workers > 0 {
		final.workers = activeProfile.Workers
	}
	if isFlagSet("workers") {
		final.workers = flags.workers
	}

	// Verbose
	if cfg != nil {
		final.verbose = cfg.Defaults.Verbose
	}
	if activeProfile != nil {
		final.verbose = activeProfile.Verbose
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	// Debug
	if cfg != nil {
		final.debug = cfg.Defaults.Debug
	}
	if activeProfile != nil {
		final.debug = activeProfile.Debug
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	// No color
	if cfg != nil {
		final.noColor = cfg.Defaults.NoColor
	}
	if activeProfile != nil {
		final.noColor = activeProfile.NoColor
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	return final, nil
}

// parseOverrides parses "TYPE=strategy,TYPE=strategy" override lists
func parseOverrides(value string) (map[string]string, error) {
	overrides := make(map[string]string)
	for _, pair := range splitList(value) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid override %q, expected TYPE=strategy", pair)
		}
		overrides[strings.ToUpper(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return overrides, nil
}

// splitList splits a comma-separated flag value, trimming blanks
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// isFlagSet checks whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	// Parse command line flags
	inputFile := flag.String("input", "", "Path to the input records file (JSON array of record objects)")
	detectionsFile := flag.String("detections", "", "Path to the detected entities file, aligned with the records")
	outputFile := flag.String("output", "", "Path to write redacted records (if not specified, records go to stdout)")
	strategy := flag.String("strategy", "", "Default redaction strategy: placeholder, mask, partial, remove, hash (default: placeholder)")
	overrides := flag.String("override", "", "Per-type strategy overrides, e.g. 'EMAIL=mask,PHONE=partial'")
	fields := flag.String("fields", "", "Comma-separated record fields to scrub (default: "+strings.Join(payload.DefaultPIIFields, ",")+")")
	outputFormat := flag.String("format", "", "Summary format: text, json, yaml (default: text)")
	workers := flag.Int("workers", 0, "Number of parallel workers (default: number of CPUs)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	verify := flag.Bool("verify", false, "Re-scan redacted output for leaked PII and report findings")
	verbose := flag.Bool("verbose", false, "Display per-record detail in the summary")
	debug := flag.Bool("debug", false, "Enable debug logging of each processing stage")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	quiet := flag.Bool("quiet", false, "Suppress the summary (useful for scripts and CI/CD)")
	showHelp := flag.Bool("help", false, "Show help information")
	showStrategies := flag.Bool("strategies", false, "Describe the available redaction strategies")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Auto-detect non-interactive environment
	if !isTerminal(os.Stderr) || *quiet || os.Getenv("CI") != "" {
		*noColor = true
	}

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *showHelp {
		help.NewSystem(*noColor).ShowGeneralHelp()
		return
	}
	if *showStrategies {
		help.NewSystem(*noColor).ShowStrategiesHelp()
		return
	}

	// Load configuration
	cfg := config.LoadConfigOrDefault(*configFile)

	if *listProfiles {
		names := cfg.ListProfiles()
		if len(names) == 0 {
			fmt.Println("No profiles defined.")
			return
		}
		for _, name := range names {
			profile := cfg.GetProfile(name)
			fmt.Printf("%s: %s\n", name, profile.Description)
		}
		return
	}

	var activeProfile *config.Profile
	if *profileName != "" {
		activeProfile = cfg.GetProfile(*profileName)
		if activeProfile == nil {
			fmt.Fprintf(os.Stderr, "Error: profile %q not found in config\n", *profileName)
			os.Exit(1)
		}
	}

	// Resolve final configuration values
	finalConfig, err := resolveConfiguration(cfg, activeProfile, &configFlags{
		outputFormat: *outputFormat,
		strategy:     *strategy,
		overrides:    *overrides,
		fields:       *fields,
		workers:      *workers,
		verbose:      *verbose,
		debug:        *debug,
		noColor:      *noColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *inputFile == "" || *detectionsFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --detections are required")
		fmt.Fprintln(os.Stderr, "Run with --help for usage.")
		os.Exit(1)
	}

	if err := run(*inputFile, *detectionsFile, *outputFile, *verify, *quiet, finalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if redactors.IsConfigurationError(err) {
			fmt.Fprintf(os.Stderr, "Known strategies: %v\n", redactors.StrategyNames())
		}
		os.Exit(1)
	}
}

// run executes one redaction job end to end
func run(inputFile, detectionsFile, outputFile string, verify, quiet bool, finalConfig *finalConfiguration) error {
	observerLevel := observability.ObservabilityOff
	if finalConfig.debug {
		observerLevel = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(observerLevel, os.Stderr)

	selector, err := redactors.NewSelector(finalConfig.strategy, finalConfig.overrides)
	if err != nil {
		return err
	}
	redactor := redactors.NewRedactor(selector, observer)
	processor := payload.NewProcessor(redactor, finalConfig.fields, observer)
	orchestrator := batch.NewOrchestrator(processor, finalConfig.strategy, finalConfig.workers, observer)

	records, err := batch.LoadRecords(inputFile)
	if err != nil {
		return err
	}
	detections, err := batch.LoadDetections(detectionsFile)
	if err != nil {
		return err
	}

	// Cancel cleanly on interrupt; a canceled run writes nothing.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redacted, result, err := orchestrator.ProcessRecords(ctx, records, detections)
	if err != nil {
		return err
	}

	if verify {
		if leaks := verifyRecords(records, redacted, detections, finalConfig.fields); len(leaks) > 0 {
			for _, leak := range leaks {
				fmt.Fprintf(os.Stderr, "verification: %s\n", leak)
			}
			return fmt.Errorf("verification failed: %d PII leak(s) in redacted output", len(leaks))
		}
	}

	if outputFile != "" {
		if err := batch.WriteRecords(outputFile, redacted); err != nil {
			return err
		}
	} else {
		if err := batch.WriteRecordsTo(os.Stdout, redacted); err != nil {
			return err
		}
	}

	if !quiet {
		summary, err := formatters.Export(finalConfig.format, result, formatters.FormatterOptions{
			Verbose: finalConfig.verbose,
			NoColor: finalConfig.noColor,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, summary)
	}

	if result.Status == batch.StatusFailed {
		return fmt.Errorf("all %d records failed", result.TotalRecords)
	}
	return nil
}

// verifyRecords re-checks redacted output field by field for surviving PII
func verifyRecords(originals, redacted []map[string]interface{}, detections []map[string][]detector.PIIEntity, fields []string) []string {
	if len(fields) == 0 {
		fields = payload.DefaultPIIFields
	}

	var leaks []string
	for i := range redacted {
		if i >= len(originals) || i >= len(detections) {
			break
		}
		for _, field := range fields {
			original, ok := originals[i][field].(string)
			if !ok {
				continue
			}
			after, ok := redacted[i][field].(string)
			if !ok {
				continue
			}

			entities := detections[i][field]
			if len(entities) == 0 {
				continue
			}
			result := &redactors.RedactionResult{
				OriginalText: original,
				RedactedText: after,
			}
			for _, entity := range entities {
				result.EntitiesRedacted = append(result.EntitiesRedacted, redactors.EntityRedaction{
					OriginalText: entity.Text,
					EntityType:   entity.EntityType,
				})
			}
			report := redactors.VerifyResult(result)
			for _, msg := range report.Errors {
				leaks = append(leaks, fmt.Sprintf("record %d field %q: %s", i, field, msg))
			}
		}
	}
	return leaks
}
