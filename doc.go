// Package testgap audits a source tree for missing tests by naming
// convention. It never runs code; it only reads files.
//
// # Convention
//
// Every source file in a module folder is expected to have a test file of
// the same name with a "test_" prefix in a tests folder, and every top-level
// function foo in the source file is expected to have a test function
// test_foo in that test file:
//
//	src/math_ops.py        def add(a, b):   def sub(a, b):
//	tests/test_math_ops.py def test_add():
//
// Here sub is reported as a missing test case.
//
// # Usage
//
//	a := testgap.New(testgap.WithReporter(testgap.NewTextReporter(os.Stdout, false)))
//	summary, err := a.Run(ctx, "src", "tests")
//	if err != nil { ... }
//	ratio, ok := summary.MissRatio()
//
// # Counting
//
// A source file without a test file adds one to
// [RunSummary.ModulesMissingFile] and all of its functions to
// [RunSummary.MissingTests]. [RunSummary.MissRatio] is MissingTests over
// TotalFunctions across all modules, i.e. the uncovered fraction, which the
// text report prints as "Percentage of tests covered".
//
// # Extraction
//
// Function names come from an [Extractor]. The default line scanner only
// looks at lines beginning with "def"; the tree-sitter extractor in
// internal/extract parses Python and Ruby properly. Test names come from a
// [Namer], either a fixed prefix or a Risor rule.
package testgap
