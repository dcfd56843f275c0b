package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineScanner finds function definitions by line prefix.
//
// A line is a definition when its first three bytes are "def". The line is
// split on single spaces, the second field is cut at the first "(" and the
// remainder is the name. No other validation happens, so:
//
//	def helper(x):     -> "helper"
//	def  helper (x):   -> ""        (the second field is empty)
//	define = 3         -> "="
//	    def nested():  -> ignored   (not at column 0)
//
// A "def" line without any space has no second field and is skipped.
type LineScanner struct{}

// Functions implements Extractor.
func (LineScanner) Functions(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: open %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if name, ok := FunctionName(strings.TrimSuffix(line, "\n")); ok {
				names = append(names, name)
			}
		}
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("extract: read %s: %w", path, err)
		}
	}
}

// FunctionName applies the line-prefix rule to a single line. ok is false
// when the line is not a definition.
func FunctionName(line string) (name string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, "def") {
		return "", false
	}
	fields := strings.Split(line, " ")
	if len(fields) < 2 {
		return "", false
	}
	name, _, _ = strings.Cut(fields[1], "(")
	return name, true
}
