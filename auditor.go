package testgap

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/jward/testgap/internal/extract"
	"github.com/jward/testgap/internal/naming"
)

// DefaultExtension is the source file suffix audited when none is configured.
const DefaultExtension = ".py"

// Auditor compares the functions of each source file in a module folder with
// the test functions of its counterpart in a tests folder.
type Auditor struct {
	extractor Extractor
	namer     Namer
	prefix    string
	extension string
	reporter  Reporter
	logger    *zap.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithExtractor replaces the default line scanner.
func WithExtractor(e Extractor) Option {
	return func(a *Auditor) {
		a.extractor = e
	}
}

// WithNamer replaces the prefix rule used to derive test function names.
// Test file names always use the prefix.
func WithNamer(n Namer) Option {
	return func(a *Auditor) {
		a.namer = n
	}
}

// WithPrefix sets the prefix for test file names and, unless WithNamer is
// also given, for test function names. Defaults to "test_".
func WithPrefix(prefix string) Option {
	return func(a *Auditor) {
		a.prefix = prefix
	}
}

// WithExtension sets the source file suffix. Defaults to ".py".
func WithExtension(ext string) Option {
	return func(a *Auditor) {
		a.extension = ext
	}
}

// WithReporter sets where diagnostics go. Defaults to NopReporter.
func WithReporter(r Reporter) Option {
	return func(a *Auditor) {
		a.reporter = r
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Auditor) {
		a.logger = l
	}
}

// New creates an Auditor with the given options applied over the defaults.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		extractor: extract.LineScanner{},
		prefix:    naming.DefaultPrefix,
		extension: DefaultExtension,
		reporter:  NopReporter{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.namer == nil {
		a.namer = naming.Prefix{Prefix: a.prefix}
	}
	return a
}

// TestPath returns the test file expected to cover the source file name.
func (a *Auditor) TestPath(testsFolder, name string) string {
	return filepath.Join(testsFolder, a.prefix+name)
}

// AuditModule audits one source file. testPaths is the set of files found in
// testsFolder.
//
// When the test file is missing, MissingFile is 1, MissingTests is 0 and the
// caller decides how to count Functions. Otherwise every function whose test
// name is absent from the test file is counted and reported.
func (a *Auditor) AuditModule(ctx context.Context, name, path, testsFolder string, testPaths map[string]bool) (*ModuleResult, error) {
	functions, err := a.extractor.Functions(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("testgap: module %s: %w", name, err)
	}

	result := &ModuleResult{
		Name:      name,
		Path:      path,
		TestPath:  a.TestPath(testsFolder, name),
		Functions: functions,
	}

	if !testPaths[result.TestPath] {
		result.MissingFile = 1
		a.reporter.MissingTestFile(name)
		return result, nil
	}

	testFunctions, err := a.extractor.Functions(ctx, result.TestPath)
	if err != nil {
		return nil, fmt.Errorf("testgap: tests for %s: %w", name, err)
	}
	declared := make(map[string]bool, len(testFunctions))
	for _, fn := range testFunctions {
		declared[fn] = true
	}

	for _, fn := range functions {
		testName, err := a.namer.TestName(ctx, fn)
		if err != nil {
			return nil, fmt.Errorf("testgap: module %s: %w", name, err)
		}
		if !declared[testName] {
			result.MissingTests++
			result.Missing = append(result.Missing, fn)
			a.reporter.MissingTestCase(name, fn)
		}
	}
	return result, nil
}

// Run audits every source file in moduleFolder against testsFolder. Totals
// are summed over all modules, so the miss ratio is total missing over total
// functions rather than a per-module average.
//
// Any unreadable file aborts the run.
func (a *Auditor) Run(ctx context.Context, moduleFolder, testsFolder string) (*RunSummary, error) {
	names, paths, err := FindFiles(moduleFolder, a.extension)
	if err != nil {
		return nil, err
	}
	_, testFiles, err := FindFiles(testsFolder, a.extension)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("enumerated files",
		zap.String("module_folder", moduleFolder),
		zap.Int("modules", len(paths)),
		zap.String("tests_folder", testsFolder),
		zap.Int("test_files", len(testFiles)),
	)

	testPaths := make(map[string]bool, len(testFiles))
	for _, p := range testFiles {
		testPaths[p] = true
	}

	summary := &RunSummary{
		ModuleFolder: moduleFolder,
		TestsFolder:  testsFolder,
	}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := names[i]
		a.reporter.ModuleStart(name)

		result, err := a.AuditModule(ctx, name, path, testsFolder, testPaths)
		if err != nil {
			return nil, err
		}
		summary.TotalFunctions += len(result.Functions)

		if result.MissingFile == 1 {
			for _, fn := range result.Functions {
				a.reporter.UntestedFunction(name, fn)
			}
			result.MissingTests += len(result.Functions)
			result.Missing = slices.Clone(result.Functions)
		}
		if result.MissingTests == 0 && result.MissingFile == 0 {
			a.reporter.ModuleComplete(name)
		}

		a.logger.Debug("audited module",
			zap.String("module", name),
			zap.Int("functions", len(result.Functions)),
			zap.Int("missing_file", result.MissingFile),
			zap.Int("missing_tests", result.MissingTests),
		)

		summary.ModulesMissingFile += result.MissingFile
		summary.MissingTests += result.MissingTests
		summary.Modules = append(summary.Modules, *result)
	}

	if err := summary.Err(); err != nil {
		a.logger.Warn("miss ratio undefined", zap.Error(err))
	}
	a.reporter.Summary(summary)
	return summary, nil
}
