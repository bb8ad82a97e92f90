// Package treecodec encodes syntax trees in a canonical binary form.
//
// The canonical form lists the tree in pre-order: each node contributes a
// header naming its tag and child count, each token its kind, text and
// location. The listing is encoded as deterministic CBOR, so identical trees
// always produce identical bytes and therefore identical hashes.
package treecodec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/invariant"
)

// CanonicalVersion is the version of the canonical listing.
const CanonicalVersion uint8 = 1

// maxDepth bounds node nesting when rebuilding a decoded tree.
const maxDepth = 1000

// CanonicalTree is the pre-order listing of a syntax tree.
type CanonicalTree struct {
	Version uint8            `cbor:"1,keyasint"`
	Entries []CanonicalEntry `cbor:"2,keyasint"`
}

// CanonicalEntry is a node header (Tag set, followed by Arity children) or
// a token (Tag empty).
type CanonicalEntry struct {
	Tag    string `cbor:"1,keyasint,omitempty"`
	Arity  int    `cbor:"2,keyasint,omitempty"`
	Kind   uint8  `cbor:"3,keyasint,omitempty"`
	Text   string `cbor:"4,keyasint,omitempty"`
	Start  int    `cbor:"5,keyasint,omitempty"`
	End    int    `cbor:"6,keyasint,omitempty"`
	Line   int    `cbor:"7,keyasint,omitempty"`
	Column int    `cbor:"8,keyasint,omitempty"`
}

// Canonicalize converts a tree into its canonical listing.
func Canonicalize(n *ast.Node) *CanonicalTree {
	invariant.NotNil(n, "node")

	ct := &CanonicalTree{Version: CanonicalVersion}
	ast.Walk(n, func(e ast.Element, _ int) bool {
		switch v := e.(type) {
		case *ast.Node:
			ct.Entries = append(ct.Entries, CanonicalEntry{Tag: string(v.Tag()), Arity: v.Len()})
		case ast.Token:
			ct.Entries = append(ct.Entries, CanonicalEntry{
				Kind:   uint8(v.Kind),
				Text:   v.Text,
				Start:  v.Span.Start,
				End:    v.Span.End,
				Line:   v.Pos.Line,
				Column: v.Pos.Column,
			})
		}
		return true
	})
	return ct
}

// canonicalTree has no methods, so CBOR encodes its fields instead of
// calling MarshalBinary again.
type canonicalTree CanonicalTree

// MarshalBinary encodes the listing as canonical CBOR.
func (ct *CanonicalTree) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	invariant.ExpectNoError(err, "canonical CBOR encoder options")
	data, err := encMode.Marshal((*canonicalTree)(ct))
	if err != nil {
		return nil, fmt.Errorf("encode canonical tree: %w", err)
	}
	return data, nil
}

// UnmarshalBinary decodes a CBOR listing. Unknown fields are rejected.
func (ct *CanonicalTree) UnmarshalBinary(data []byte) error {
	// Token text is raw script bytes, which need not be UTF-8.
	decMode, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		UTF8:              cbor.UTF8DecodeInvalid,
	}.DecMode()
	if err != nil {
		return fmt.Errorf("failed to create CBOR decoder: %w", err)
	}
	if err := decMode.Unmarshal(data, (*canonicalTree)(ct)); err != nil {
		return fmt.Errorf("decode canonical tree: %w", err)
	}
	return nil
}

// Hash returns "sha256:<hex>" of the canonical encoding of n.
func Hash(n *ast.Node) (string, error) {
	data, err := Canonicalize(n).MarshalBinary()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Tree rebuilds the syntax tree from the listing. Malformed listings are
// reported as errors, never as panics.
func (ct *CanonicalTree) Tree() (*ast.Node, error) {
	if ct.Version != CanonicalVersion {
		return nil, fmt.Errorf("unsupported canonical version %d, expected %d", ct.Version, CanonicalVersion)
	}
	if len(ct.Entries) == 0 {
		return nil, fmt.Errorf("canonical tree has no entries")
	}

	rb := &rebuilder{entries: ct.Entries}
	if ct.Entries[0].Tag == "" {
		return nil, fmt.Errorf("entry 0: root must be a node")
	}
	root, err := rb.node(0)
	if err != nil {
		return nil, err
	}
	if rb.pos != len(ct.Entries) {
		return nil, fmt.Errorf("entry %d: %d trailing entries after root", rb.pos, len(ct.Entries)-rb.pos)
	}
	return root, nil
}

type rebuilder struct {
	entries []CanonicalEntry
	pos     int
}

func (rb *rebuilder) node(depth int) (*ast.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("entry %d: nesting exceeds maximum depth %d", rb.pos, maxDepth)
	}
	at := rb.pos
	e := rb.entries[at]
	rb.pos++

	tag := ast.Tag(e.Tag)
	if !tag.Valid() {
		return nil, fmt.Errorf("entry %d: unknown tag %q", at, e.Tag)
	}
	if e.Arity < 0 || e.Arity > len(rb.entries)-rb.pos {
		return nil, fmt.Errorf("entry %d: arity %d out of range", at, e.Arity)
	}

	b := ast.NewBuilder(tag)
	started, lastEnd := false, 0
	for i := 0; i < e.Arity; i++ {
		if rb.pos >= len(rb.entries) {
			return nil, fmt.Errorf("entry %d: truncated after %d of %d children", at, i, e.Arity)
		}

		var child ast.Element
		if rb.entries[rb.pos].Tag != "" {
			n, err := rb.node(depth + 1)
			if err != nil {
				return nil, err
			}
			if n.Len() == 0 {
				b.Add(n)
				continue
			}
			child = n
		} else {
			tok, err := rb.token()
			if err != nil {
				return nil, err
			}
			child = tok
		}

		ext := child.Extent()
		if started && ext.Start < lastEnd {
			return nil, fmt.Errorf("entry %d: child %d at %d overlaps previous child ending at %d", at, i, ext.Start, lastEnd)
		}
		started, lastEnd = true, ext.End
		b.Add(child)
	}
	return b.Finish(), nil
}

func (rb *rebuilder) token() (ast.Token, error) {
	at := rb.pos
	e := rb.entries[at]
	rb.pos++

	switch {
	case e.Kind > uint8(ast.TokenLineBreak):
		return ast.Token{}, fmt.Errorf("entry %d: unknown token kind %d", at, e.Kind)
	case e.Start < 0 || e.End <= e.Start:
		return ast.Token{}, fmt.Errorf("entry %d: invalid span [%d, %d)", at, e.Start, e.End)
	case len(e.Text) != e.End-e.Start:
		return ast.Token{}, fmt.Errorf("entry %d: text length %d does not match span length %d", at, len(e.Text), e.End-e.Start)
	case e.Line < 1 || e.Column < 1:
		return ast.Token{}, fmt.Errorf("entry %d: invalid position %d:%d", at, e.Line, e.Column)
	}

	return ast.Token{
		Kind: ast.TokenKind(e.Kind),
		Text: e.Text,
		Span: ast.Span{Start: e.Start, End: e.End},
		Pos:  ast.Position{Offset: e.Start, Line: e.Line, Column: e.Column},
	}, nil
}
