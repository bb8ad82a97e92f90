// Package treejson is the JSON interchange form of a parsed script.
//
// A Document carries the syntax tree with every token's kind, text and
// location, the parse warnings, and the canonical digest of the tree so a
// consumer can detect edits made after export. Documents are validated
// against an embedded JSON Schema before they are decoded.
package treejson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/mod/semver"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/invariant"
	"github.com/aledsdavies/batparse/core/treecodec"
	"github.com/aledsdavies/batparse/runtime/parser"
)

// FormatVersion is the semantic version of the document layout.
const FormatVersion = "v1.0.0"

// ErrDigestMismatch is returned when a document's tree does not hash to its
// recorded digest.
var ErrDigestMismatch = errors.New("document digest mismatch")

// Document is the exported form of one parse.
type Document struct {
	FormatVersion string    `json:"format_version"`
	Filename      string    `json:"filename,omitempty"`
	Digest        string    `json:"digest"`
	Root          Node      `json:"root"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// Node is a tree node.
type Node struct {
	Tag      string  `json:"tag"`
	Children []Child `json:"children"`
}

// Child holds exactly one of a nested node or a token.
type Child struct {
	Node  *Node  `json:"node,omitempty"`
	Token *Token `json:"token,omitempty"`
}

// Token is a leaf with its source location. Scripts are often in a legacy
// code page; when the token text is not valid UTF-8, Text holds it with
// invalid bytes replaced by U+FFFD and Bytes holds the exact source bytes.
type Token struct {
	Kind   string `json:"kind"`
	Text   string `json:"text"`
	Bytes  []byte `json:"bytes,omitempty"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Source returns the exact source text of the token.
func (t *Token) Source() string {
	if t.Bytes != nil {
		return string(t.Bytes)
	}
	return t.Text
}

// Warning is a parse warning.
type Warning struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Offset     int    `json:"offset"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewDocument exports a parse result. filename is recorded as given.
func NewDocument(tree *parser.Tree, filename string) (*Document, error) {
	invariant.NotNil(tree, "tree")
	invariant.NotNil(tree.Root, "tree.Root")

	digest, err := treecodec.Hash(tree.Root)
	if err != nil {
		return nil, fmt.Errorf("hash tree: %w", err)
	}

	doc := &Document{
		FormatVersion: FormatVersion,
		Filename:      filename,
		Digest:        digest,
		Root:          exportNode(tree.Root),
	}
	for _, w := range tree.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{
			Kind:       w.Kind.String(),
			Message:    w.Message,
			Line:       w.Position.Line,
			Column:     w.Position.Column,
			Offset:     w.Position.Offset,
			Suggestion: w.Suggestion,
		})
	}
	return doc, nil
}

func exportNode(n *ast.Node) Node {
	out := Node{Tag: string(n.Tag()), Children: make([]Child, 0, n.Len())}
	for _, c := range n.Children() {
		switch v := c.(type) {
		case *ast.Node:
			child := exportNode(v)
			out.Children = append(out.Children, Child{Node: &child})
		case ast.Token:
			tok := &Token{
				Kind:   v.Kind.String(),
				Text:   v.Text,
				Start:  v.Span.Start,
				End:    v.Span.End,
				Line:   v.Pos.Line,
				Column: v.Pos.Column,
			}
			if !utf8.ValidString(v.Text) {
				tok.Text = strings.ToValidUTF8(v.Text, "\uFFFD")
				tok.Bytes = []byte(v.Text)
			}
			out.Children = append(out.Children, Child{Token: tok})
		}
	}
	return out
}

// Marshal encodes doc as indented JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Unmarshal validates data against the document schema, decodes it, and
// checks that its format version is compatible.
func Unmarshal(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if !Compatible(doc.FormatVersion) {
		return nil, fmt.Errorf("incompatible format version %s (supported: %s)",
			doc.FormatVersion, semver.Major(FormatVersion))
	}
	return &doc, nil
}

// Compatible reports whether a document of the given format version can be
// read: it must be a valid semantic version with the current major version.
func Compatible(version string) bool {
	return semver.IsValid(version) && semver.Major(version) == semver.Major(FormatVersion)
}

// Tree rebuilds the syntax tree and checks it against the recorded digest.
func (d *Document) Tree() (*ast.Node, error) {
	ct := &treecodec.CanonicalTree{Version: treecodec.CanonicalVersion}
	if err := flatten(&d.Root, ct, "root"); err != nil {
		return nil, err
	}
	root, err := ct.Tree()
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}

	digest, err := treecodec.Hash(root)
	if err != nil {
		return nil, fmt.Errorf("hash tree: %w", err)
	}
	if digest != d.Digest {
		return nil, fmt.Errorf("%w: tree hashes to %s, document records %s", ErrDigestMismatch, digest, d.Digest)
	}
	return root, nil
}

// flatten appends the pre-order listing of n to ct.
func flatten(n *Node, ct *treecodec.CanonicalTree, path string) error {
	ct.Entries = append(ct.Entries, treecodec.CanonicalEntry{Tag: n.Tag, Arity: len(n.Children)})
	for i, c := range n.Children {
		at := fmt.Sprintf("%s.children[%d]", path, i)
		switch {
		case c.Node != nil && c.Token != nil:
			return fmt.Errorf("%s: child has both node and token", at)
		case c.Node != nil:
			if err := flatten(c.Node, ct, at); err != nil {
				return err
			}
		case c.Token != nil:
			kind, ok := ast.ParseTokenKind(c.Token.Kind)
			if !ok {
				return fmt.Errorf("%s: unknown token kind %q", at, c.Token.Kind)
			}
			ct.Entries = append(ct.Entries, treecodec.CanonicalEntry{
				Kind:   uint8(kind),
				Text:   c.Token.Source(),
				Start:  c.Token.Start,
				End:    c.Token.End,
				Line:   c.Token.Line,
				Column: c.Token.Column,
			})
		default:
			return fmt.Errorf("%s: empty child", at)
		}
	}
	return nil
}
