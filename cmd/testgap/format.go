package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jward/testgap"
)

// output writes result as JSON or text depending on format.
func (a *app) output(format string, result CLIResult) error {
	if format == "text" {
		return outputResultText(a.stdout, result)
	}
	return outputJSON(a.stdout, result)
}

func outputJSON(w io.Writer, result CLIResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// formatRunsText formats history entries as aligned columns.
func formatRunsText(w io.Writer, runs []CLIRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tMODULES W/O TESTS\tMISSING\tFUNCTIONS\tRATIO\tMODULE FOLDER")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.ModulesMissingFile, r.MissingTests, r.TotalFunctions,
			formatRatioPtr(r.MissRatio), r.ModuleFolder)
	}
	tw.Flush()
}

// formatRunText formats one history entry with its modules.
func formatRunText(w io.Writer, r CLIRun) {
	fmt.Fprintf(w, "Run %d\n", r.ID)
	fmt.Fprintf(w, "Started: %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Module folder: %s\n", r.ModuleFolder)
	fmt.Fprintf(w, "Tests folder: %s\n", r.TestsFolder)
	fmt.Fprintf(w, "Modules with no tests: %d\n", r.ModulesMissingFile)
	fmt.Fprintf(w, "Total number tests missing: %d\n", r.MissingTests)
	fmt.Fprintf(w, "Total number of functions: %d\n", r.TotalFunctions)
	fmt.Fprintf(w, "Miss ratio: %s\n", formatRatioPtr(r.MissRatio))

	if len(r.Modules) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tTEST FILE\tFUNCTIONS\tMISSING\tNAMES")
	for _, m := range r.Modules {
		testFile := "yes"
		if m.MissingFile == 1 {
			testFile = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			m.Module, testFile, m.FunctionCount, m.MissingTests, strings.Join(m.Missing, ","))
	}
	tw.Flush()
}

func formatRatioPtr(ratio *float64) string {
	if ratio == nil {
		return "-"
	}
	return testgap.FormatRatio(*ratio)
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIRun:
		formatRunsText(w, v)
	case CLIRun:
		formatRunText(w, v)
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
