package testgap

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextReporter_GoldenOutput(t *testing.T) {
	t.Parallel()
	moduleDir, testsDir := newLayout(t,
		map[string]string{
			"math_ops.py": "def add(a, b):\ndef sub(a, b):\n",
			"lonely.py":   "def only_one():\n",
			"strings.py":  "def upper(s):\n",
		},
		map[string]string{
			"test_math_ops.py": "def test_add():\n",
			"test_strings.py":  "def test_upper():\n",
		},
	)
	var buf bytes.Buffer

	_, err := New(WithReporter(NewTextReporter(&buf, true))).Run(context.Background(), moduleDir, testsDir)
	require.NoError(t, err)

	want := `========== lonely.py ==========
Missing test-file for lonely.py
Missing test-case for :::only_one:::
========== math_ops.py ==========
Missing test-case for :::sub:::
========== strings.py ==========
All functions have test-cases! (Y)
>>>>>>>>>>>>> Summary <<<<<<<<<<<<<
Modules with no tests: 1
Total number tests missing: 2
Total number of functions: 4
Percentage of tests covered 0.5 (moderate)
>>>>>>>>>>>>>> END <<<<<<<<<<<<<<<<<<
`
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_SummaryBands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		summary RunSummary
		want    string
	}{
		{
			// A ratio of 1.0 means nothing is tested, yet it lands in the
			// top band under the historical "covered" label.
			name:    "everything missing",
			summary: RunSummary{ModulesMissingFile: 2, MissingTests: 4, TotalFunctions: 4},
			want:    "Percentage of tests covered 1.0 (high)",
		},
		{
			name:    "nothing missing",
			summary: RunSummary{TotalFunctions: 5},
			want:    "Percentage of tests covered 0.0 (low)",
		},
		{
			name:    "one third",
			summary: RunSummary{MissingTests: 1, TotalFunctions: 3},
			want:    "Percentage of tests covered 0.3333333333333333 (low)",
		},
		{
			name:    "no functions",
			summary: RunSummary{},
			want:    "No functions found; miss ratio undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewTextReporter(&buf, true).Summary(&tt.summary)
			assert.Contains(t, buf.String(), tt.want+"\n")
		})
	}
}

func TestTextReporter_Colors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	r := NewTextReporter(&buf, false)
	for _, c := range r.styles {
		c.EnableColor()
	}

	r.MissingTestFile("a.py")
	r.UntestedFunction("a.py", "f")
	r.ModuleComplete("b.py")

	out := buf.String()
	assert.Contains(t, out, "\x1b[31mMissing test-file for a.py\x1b[0m")
	assert.Contains(t, out, "\x1b[33mMissing test-case for :::f:::\x1b[0m")
	assert.Contains(t, out, "\x1b[32mAll functions have test-cases! (Y)\x1b[0m")
}

func TestFormatRatio(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0", FormatRatio(0))
	assert.Equal(t, "1.0", FormatRatio(1))
	assert.Equal(t, "0.5", FormatRatio(0.5))
	assert.Equal(t, "0.6666666666666666", FormatRatio(2.0/3.0))
	assert.Equal(t, "1e-05", FormatRatio(0.00001))
}
