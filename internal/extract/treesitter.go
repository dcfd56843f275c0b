package extract

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// TreeSitter extracts top-level function names from a real syntax tree.
//
// Unlike LineScanner it finds decorated, async and multi-line definitions,
// and it never mistakes plain text starting with "def" for a function.
// Nested definitions and class methods are still excluded.
type TreeSitter struct{}

// Functions implements Extractor.
func (TreeSitter) Functions(ctx context.Context, path string) ([]string, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("extract: no grammar for %s", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract: read %s: %w", path, err)
	}
	return ParseFunctions(ctx, src, lang)
}

// ParseFunctions parses src as lang and returns the names of its top-level
// function definitions.
func ParseFunctions(ctx context.Context, src []byte, lang string) ([]string, error) {
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("extract: unsupported language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("extract: tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var names []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if name, ok := definitionName(root.NamedChild(i), src); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// definitionName returns the declared name when node is a function
// definition, unwrapping Python decorators.
func definitionName(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "decorated_definition":
		return definitionName(node.ChildByFieldName("definition"), src)
	case "function_definition", "method":
		name := node.ChildByFieldName("name")
		if name == nil {
			return "", false
		}
		return name.Content(src), true
	}
	return "", false
}
