package store

import "time"

// Run is one recorded audit.
type Run struct {
	ID                 int64
	StartedAt          time.Time
	ModuleFolder       string
	TestsFolder        string
	ModulesMissingFile int
	MissingTests       int
	TotalFunctions     int
	Modules            []ModuleRecord
}

// ModuleRecord is the stored outcome for one source file of a run.
type ModuleRecord struct {
	Module        string
	MissingFile   int
	MissingTests  int
	FunctionCount int
	Missing       []string
}
