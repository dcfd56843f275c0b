package main

import (
	"time"

	"github.com/jward/testgap"
	"github.com/jward/testgap/internal/store"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
}

// CLISummary is a JSON-friendly audit summary. MissRatio is null when no
// functions were found.
type CLISummary struct {
	ModuleFolder       string                 `json:"module_folder"`
	TestsFolder        string                 `json:"tests_folder"`
	ModulesMissingFile int                    `json:"modules_missing_file"`
	MissingTests       int                    `json:"missing_tests"`
	TotalFunctions     int                    `json:"total_functions"`
	MissRatio          *float64               `json:"miss_ratio"`
	Band               string                 `json:"band,omitempty"`
	Modules            []testgap.ModuleResult `json:"modules"`
}

// CLIRun is a JSON-friendly history entry.
type CLIRun struct {
	ID                 int64       `json:"id"`
	StartedAt          time.Time   `json:"started_at"`
	ModuleFolder       string      `json:"module_folder"`
	TestsFolder        string      `json:"tests_folder"`
	ModulesMissingFile int         `json:"modules_missing_file"`
	MissingTests       int         `json:"missing_tests"`
	TotalFunctions     int         `json:"total_functions"`
	MissRatio          *float64    `json:"miss_ratio"`
	Modules            []CLIModule `json:"modules,omitempty"`
}

// CLIModule is a JSON-friendly stored module result.
type CLIModule struct {
	Module        string   `json:"module"`
	MissingFile   int      `json:"missing_file"`
	MissingTests  int      `json:"missing_tests"`
	FunctionCount int      `json:"function_count"`
	Missing       []string `json:"missing,omitempty"`
}

func toCLISummary(s *testgap.RunSummary) CLISummary {
	out := CLISummary{
		ModuleFolder:       s.ModuleFolder,
		TestsFolder:        s.TestsFolder,
		ModulesMissingFile: s.ModulesMissingFile,
		MissingTests:       s.MissingTests,
		TotalFunctions:     s.TotalFunctions,
		Modules:            s.Modules,
	}
	if out.Modules == nil {
		out.Modules = []testgap.ModuleResult{}
	}
	if ratio, ok := s.MissRatio(); ok {
		out.MissRatio = &ratio
		out.Band = testgap.ClassifyRatio(ratio).String()
	}
	return out
}

func toCLIRun(r *store.Run) CLIRun {
	out := CLIRun{
		ID:                 r.ID,
		StartedAt:          r.StartedAt,
		ModuleFolder:       r.ModuleFolder,
		TestsFolder:        r.TestsFolder,
		ModulesMissingFile: r.ModulesMissingFile,
		MissingTests:       r.MissingTests,
		TotalFunctions:     r.TotalFunctions,
	}
	if r.TotalFunctions > 0 {
		ratio := float64(r.MissingTests) / float64(r.TotalFunctions)
		out.MissRatio = &ratio
	}
	for _, m := range r.Modules {
		out.Modules = append(out.Modules, CLIModule(m))
	}
	return out
}
