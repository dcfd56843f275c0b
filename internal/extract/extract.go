// Package extract pulls top-level function names out of source files.
//
// Two extractors are provided. [LineScanner] is the default: it matches
// lines that begin with "def" and slices the name out of the line text,
// without any notion of syntax. [TreeSitter] parses the file with a
// tree-sitter grammar and walks the top level of the syntax tree. Both
// satisfy [Extractor], so callers can swap one for the other.
package extract

import (
	"context"
	"fmt"
)

// Extractor returns the function names declared in the file at path, in
// declaration order. Duplicates are preserved.
type Extractor interface {
	Functions(ctx context.Context, path string) ([]string, error)
}

// Extractor kinds accepted by ForName.
const (
	KindLines      = "lines"
	KindTreeSitter = "treesitter"
)

// ForName returns the extractor registered under kind. An empty kind selects
// the line scanner.
func ForName(kind string) (Extractor, error) {
	switch kind {
	case "", KindLines:
		return LineScanner{}, nil
	case KindTreeSitter:
		return TreeSitter{}, nil
	default:
		return nil, fmt.Errorf("extract: unknown extractor %q: must be %s or %s", kind, KindLines, KindTreeSitter)
	}
}
