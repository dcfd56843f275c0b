package testgap

import (
	"errors"

	"github.com/jward/testgap/internal/extract"
	"github.com/jward/testgap/internal/naming"
)

// Public type aliases for the internal strategy interfaces accepted by
// Auditor options. These are Go type aliases (=) so no conversion is needed.
type (
	Extractor = extract.Extractor
	Namer     = naming.Namer
)

// ErrNoFunctions is returned by RunSummary.Err when no source functions were
// found, leaving the miss ratio undefined.
var ErrNoFunctions = errors.New("testgap: no functions found")

// ModuleResult is the audit outcome for one source file.
type ModuleResult struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	TestPath string `json:"test_path"`

	// MissingFile is 1 when TestPath does not exist, 0 otherwise.
	MissingFile int `json:"missing_file"`

	// MissingTests counts functions without a test. AuditModule only counts
	// absences inside an existing test file; Run adds len(Functions) when the
	// test file is missing.
	MissingTests int `json:"missing_tests"`

	Functions []string `json:"functions"`
	Missing   []string `json:"missing,omitempty"`
}

// RunSummary aggregates the module results of one audit run.
//
// A module without a test file counts once in ModulesMissingFile and once
// per function in MissingTests.
type RunSummary struct {
	ModuleFolder       string         `json:"module_folder"`
	TestsFolder        string         `json:"tests_folder"`
	Modules            []ModuleResult `json:"modules"`
	ModulesMissingFile int            `json:"modules_missing_file"`
	MissingTests       int            `json:"missing_tests"`
	TotalFunctions     int            `json:"total_functions"`
}

// MissRatio returns MissingTests / TotalFunctions: the fraction of functions
// WITHOUT a test. The report prints it under the historical label
// "Percentage of tests covered". ok is false when there are no functions.
func (s *RunSummary) MissRatio() (ratio float64, ok bool) {
	if s.TotalFunctions == 0 {
		return 0, false
	}
	return float64(s.MissingTests) / float64(s.TotalFunctions), true
}

// Band classifies the miss ratio. Only meaningful when MissRatio is ok.
func (s *RunSummary) Band() Band {
	r, _ := s.MissRatio()
	return ClassifyRatio(r)
}

// Err returns ErrNoFunctions when the ratio is undefined.
func (s *RunSummary) Err() error {
	if s.TotalFunctions == 0 {
		return ErrNoFunctions
	}
	return nil
}

// Band is a display bucket for the miss ratio.
type Band int

const (
	BandModerate Band = iota // 0.5 <= ratio <= 0.9
	BandHigh                 // ratio > 0.9
	BandLow                  // ratio < 0.5
)

// ClassifyRatio buckets a ratio with the thresholds 0.9 and 0.5.
func ClassifyRatio(ratio float64) Band {
	switch {
	case ratio > 0.9:
		return BandHigh
	case ratio < 0.5:
		return BandLow
	default:
		return BandModerate
	}
}

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandLow:
		return "low"
	default:
		return "moderate"
	}
}
