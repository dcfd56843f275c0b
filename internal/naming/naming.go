// Package naming maps a source function name to the test function name
// expected to cover it.
package naming

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/object"
	"github.com/risor-io/risor/parser"
)

// DefaultPrefix is prepended to both test file names and test function names.
const DefaultPrefix = "test_"

// Namer derives the expected test function name for fn.
type Namer interface {
	TestName(ctx context.Context, fn string) (string, error)
}

// Prefix names tests by prepending a fixed string.
type Prefix struct {
	Prefix string
}

// TestName implements Namer.
func (p Prefix) TestName(_ context.Context, fn string) (string, error) {
	return p.Prefix + fn, nil
}

// Script names tests by evaluating a Risor program. The program sees two
// globals, name (the source function) and prefix, and its final value must
// be a string:
//
//	prefix + name
//	"test_" + name.to_lower()
//
// The program is compiled once and evaluated for every function.
type Script struct {
	code   *compiler.Code
	label  string
	prefix string
}

// NewScript compiles Risor source. label identifies the program in errors.
func NewScript(source, label, prefix string) (*Script, error) {
	s := &Script{label: label, prefix: prefix}
	ctx := context.Background()
	ast, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("naming: rule %s: %w", label, err)
	}
	// Globals occupy compiler slots, so the placeholders must match the
	// names bound at evaluation time.
	cfg := risor.NewConfig(s.globals("")...)
	code, err := compiler.Compile(ast, cfg.CompilerOpts()...)
	if err != nil {
		return nil, fmt.Errorf("naming: rule %s: %w", label, err)
	}
	s.code = code
	return s, nil
}

func (s *Script) globals(fn string) []risor.Option {
	return []risor.Option{
		risor.WithGlobal("name", fn),
		risor.WithGlobal("prefix", s.prefix),
	}
}

// LoadRule interprets rule as a path when it ends in ".risor" and as inline
// Risor source otherwise.
func LoadRule(rule, prefix string) (*Script, error) {
	if !strings.HasSuffix(rule, ".risor") {
		return NewScript(rule, "<inline>", prefix)
	}
	data, err := os.ReadFile(rule)
	if err != nil {
		return nil, fmt.Errorf("naming: loading rule %s: %w", rule, err)
	}
	return NewScript(string(data), rule, prefix)
}

// TestName implements Namer.
func (s *Script) TestName(ctx context.Context, fn string) (string, error) {
	result, err := risor.EvalCode(ctx, s.code, s.globals(fn)...)
	if err != nil {
		return "", fmt.Errorf("naming: rule %s: %w", s.label, err)
	}
	str, ok := result.(*object.String)
	if !ok {
		return "", fmt.Errorf("naming: rule %s returned %s for %q, want string", s.label, typeName(result), fn)
	}
	return str.Value(), nil
}

func typeName(obj object.Object) string {
	if obj == nil {
		return "nil"
	}
	return string(obj.Type())
}
