package testgap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Reporter receives audit diagnostics in the order they occur.
type Reporter interface {
	// ModuleStart opens the section for a source file.
	ModuleStart(name string)
	// MissingTestFile reports a source file without a test file.
	MissingTestFile(name string)
	// MissingTestCase reports a function absent from an existing test file.
	MissingTestCase(module, fn string)
	// UntestedFunction reports a function of a module with no test file.
	UntestedFunction(module, fn string)
	// ModuleComplete reports a module whose test file covers every function.
	ModuleComplete(name string)
	// Summary closes the report.
	Summary(s *RunSummary)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) ModuleStart(string)              {}
func (NopReporter) MissingTestFile(string)          {}
func (NopReporter) MissingTestCase(string, string)  {}
func (NopReporter) UntestedFunction(string, string) {}
func (NopReporter) ModuleComplete(string)           {}
func (NopReporter) Summary(*RunSummary)             {}

// Style is the severity class of a report line.
type Style int

const (
	StylePlain Style = iota
	StyleBold
	StylePass
	StyleWarn
	StyleError
)

func newStyles() map[Style]*color.Color {
	return map[Style]*color.Color{
		StyleBold:  color.New(color.Bold),
		StylePass:  color.New(color.FgGreen),
		StyleWarn:  color.New(color.FgYellow),
		StyleError: color.New(color.FgRed),
	}
}

// bandStyles maps each ratio band to the style its summary line uses. High
// miss ratios print in the pass style; the thresholds were written for a
// coverage figure and are kept as they are.
var bandStyles = map[Band]Style{
	BandHigh:     StylePass,
	BandLow:      StyleError,
	BandModerate: StyleWarn,
}

// TextReporter writes the human-readable console report.
type TextReporter struct {
	w      io.Writer
	styles map[Style]*color.Color
}

// NewTextReporter returns a TextReporter writing to w. Colors follow the
// terminal auto-detection of fatih/color unless noColor is set.
func NewTextReporter(w io.Writer, noColor bool) *TextReporter {
	styles := newStyles()
	if noColor {
		for _, c := range styles {
			c.DisableColor()
		}
	}
	return &TextReporter{w: w, styles: styles}
}

func (r *TextReporter) line(style Style, s string) {
	if style == StylePlain {
		fmt.Fprintln(r.w, s)
		return
	}
	fmt.Fprintln(r.w, r.styles[style].Sprint(s))
}

func (r *TextReporter) ModuleStart(name string) {
	r.line(StyleBold, "========== "+name+" ==========")
}

func (r *TextReporter) MissingTestFile(name string) {
	r.line(StyleError, "Missing test-file for "+name)
}

func (r *TextReporter) MissingTestCase(_, fn string) {
	r.line(StyleError, "Missing test-case for :::"+fn+":::")
}

func (r *TextReporter) UntestedFunction(_, fn string) {
	r.line(StyleWarn, "Missing test-case for :::"+fn+":::")
}

func (r *TextReporter) ModuleComplete(string) {
	r.line(StylePass, "All functions have test-cases! (Y)")
}

func (r *TextReporter) Summary(s *RunSummary) {
	r.line(StylePlain, ">>>>>>>>>>>>> Summary <<<<<<<<<<<<<")
	r.line(StylePlain, "Modules with no tests: "+strconv.Itoa(s.ModulesMissingFile))
	r.line(StylePlain, "Total number tests missing: "+strconv.Itoa(s.MissingTests))
	r.line(StylePlain, "Total number of functions: "+strconv.Itoa(s.TotalFunctions))
	if ratio, ok := s.MissRatio(); ok {
		band := ClassifyRatio(ratio)
		r.line(bandStyles[band], fmt.Sprintf("Percentage of tests covered %s (%s)", FormatRatio(ratio), band))
	} else {
		r.line(StyleWarn, "No functions found; miss ratio undefined")
	}
	r.line(StylePlain, ">>>>>>>>>>>>>> END <<<<<<<<<<<<<<<<<<")
}

// FormatRatio prints the shortest representation that round-trips, keeping a
// trailing ".0" on whole numbers: 0.5, 1.0, 0.3333333333333333.
func FormatRatio(ratio float64) string {
	s := strconv.FormatFloat(ratio, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
