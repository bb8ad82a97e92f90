// Package ast defines the syntax tree produced by the batch-script parser.
//
// A tree is made of tagged Nodes whose children are either Tokens (classified
// spans of the original source) or further Nodes. Trees are built once, left
// to right, through a Builder and are immutable afterwards.
package ast

import "fmt"

// Position represents source location information
type Position struct {
	Offset int // Byte offset in source
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) of the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

// Text returns the source text covered by the span.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// TokenKind classifies a token.
type TokenKind uint8

const (
	TokenKeyword    TokenKind = iota // ECHO, SET, IF, NOT, EXIST, ELSE, FOR, IN, DO, ...
	TokenFlag                        // /A, /F, /I
	TokenOperator                    // redirection, pipe, chain, comparison
	TokenName                        // command names, variable names, labels, targets
	TokenText                        // literal text runs and operands
	TokenDelimiter                   // : = %% and FOR range parens
	TokenGroupOpen                   // ( opening a group
	TokenGroupClose                  // ) closing a group
	TokenLineBreak                   // line terminator kept as a blank-line marker
)

var tokenKindNames = [...]string{
	TokenKeyword:    "keyword",
	TokenFlag:       "flag",
	TokenOperator:   "operator",
	TokenName:       "name",
	TokenText:       "text",
	TokenDelimiter:  "delimiter",
	TokenGroupOpen:  "group_open",
	TokenGroupClose: "group_close",
	TokenLineBreak:  "line_break",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// ParseTokenKind is the inverse of TokenKind.String.
func ParseTokenKind(s string) (TokenKind, bool) {
	for k, name := range tokenKindNames {
		if name == s {
			return TokenKind(k), true
		}
	}
	return 0, false
}

// Token is a classified span of the source. Text is always the exact source
// text of Span.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
	Pos  Position
}

// Extent implements Element.
func (t Token) Extent() Span {
	return t.Span
}

func (t Token) String() string {
	return t.Text
}

func (Token) element() {}

// Element is a child of a Node: either a Token or a *Node.
type Element interface {
	Extent() Span
	element()
}
