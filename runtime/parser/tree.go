package parser

import (
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
)

// Tree represents the result of a successful parse
type Tree struct {
	Source      []byte          // Original source (for reference)
	Filename    string          // Name given through WithFilename
	Root        *ast.Node       // program node
	Warnings    []ParseWarning  // Tolerated irregularities and label findings
	Telemetry   *ParseTelemetry // Performance metrics (nil if disabled)
	DebugEvents []DebugEvent    // Debug events (nil if disabled)
}

// Leaves returns every token in source order.
func (t *Tree) Leaves() []ast.Token {
	return ast.Leaves(t.Root)
}

// Labels returns the names of all label lines, in source order. Comment
// lines written as "::" are not labels.
func (t *Tree) Labels() []string {
	var names []string
	for _, l := range labelLines(t.Root) {
		if name, ok := labelName(l); ok {
			names = append(names, name)
		}
	}
	return names
}

// WarningsOf returns the warnings of the given kind.
func (t *Tree) WarningsOf(kind WarningKind) []ParseWarning {
	var out []ParseWarning
	for _, w := range t.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// labelLines returns label nodes that stand as items of a program or
// subprogram, as opposed to the label operand of CALL.
func labelLines(n *ast.Node) []*ast.Node {
	var out []*ast.Node
	var visit func(*ast.Node)
	visit = func(n *ast.Node) {
		block := n.Tag() == ast.TagProgram || n.Tag() == ast.TagSubprogram
		for _, child := range n.Nodes() {
			if block && child.Tag() == ast.TagLabel {
				out = append(out, child)
				continue
			}
			visit(child)
		}
	}
	visit(n)
	return out
}

// labelName returns the name token text of a label node.
func labelName(l *ast.Node) (string, bool) {
	for _, tok := range l.Tokens() {
		if tok.Kind == ast.TokenName && !strings.HasPrefix(tok.Text, ":") {
			return tok.Text, true
		}
	}
	return "", false
}
