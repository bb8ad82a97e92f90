package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/treefmt"
	"github.com/aledsdavies/batparse/runtime/parser"
)

// assertTree parses input and compares its formatted tree with want. A
// leading newline in want is ignored so expectations can start on their
// own line.
func assertTree(t *testing.T, input, want string) {
	t.Helper()

	tree, err := parser.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) failed: %v", input, err)
	}
	got := treefmt.Format(tree.Root)
	if diff := cmp.Diff(strings.TrimPrefix(want, "\n"), got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	assertCoverage(t, input, tree.Root)
}

// assertCoverage checks that tokens appear in source order without overlap,
// that each token's text is its source span, and that every byte left
// outside a token is whitespace or the '@' echo suppressor.
func assertCoverage(t *testing.T, src string, root *ast.Node) {
	t.Helper()

	covered := make([]bool, len(src))
	prev := 0
	for i, tok := range ast.Leaves(root) {
		if tok.Span.Start < prev {
			t.Fatalf("token %d %q starts at %d before previous end %d", i, tok.Text, tok.Span.Start, prev)
		}
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("token %d text %q differs from source %q", i, tok.Text, got)
		}
		for j := tok.Span.Start; j < tok.Span.End; j++ {
			covered[j] = true
		}
		prev = tok.Span.End
	}

	for i, c := range []byte(src) {
		if covered[i] {
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n', '\f', '\v', '@':
		default:
			t.Fatalf("byte %d %q is not covered by any token", i, c)
		}
	}

	if d := ast.Depth(ast.Leaves(root)); d != 0 {
		t.Fatalf("group delimiters unbalanced: depth %d", d)
	}
}
