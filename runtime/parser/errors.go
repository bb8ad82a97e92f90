package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
)

// ErrSyntax is matched by every *ParseError through errors.Is.
var ErrSyntax = errors.New("batch syntax error")

// ErrorType represents different categories of parsing errors
type ErrorType int

const (
	ErrorSyntax     ErrorType = iota // No production applies
	ErrorUnexpected                  // A structural operator where a command was required
	ErrorMissing                     // A required operand, keyword or delimiter is absent
	ErrorInvalid                     // An operand is present but malformed
)

func (e ErrorType) String() string {
	switch e {
	case ErrorSyntax:
		return "syntax error"
	case ErrorUnexpected:
		return "unexpected token"
	case ErrorMissing:
		return "missing"
	case ErrorInvalid:
		return "invalid"
	default:
		return "error"
	}
}

// ParseError is a fatal parse failure. No tree is returned alongside it.
type ParseError struct {
	// Location
	Filename string       // Source filename (empty for stdin/string)
	Position ast.Position // Line, column, offset

	// Core error info
	Type    ErrorType
	Message string // Clear, specific: "missing command after '|'"
	Context string // What we were parsing: "pipeline"

	// What went wrong
	Expected []string // Rules attempted at the position
	Got      string   // What we found instead

	// How to fix it
	Suggestion string // Actionable fix: "Did you mean GEQ?"
	Example    string // Valid syntax: `IF %X% GEQ 10 ECHO big`
	Note       string // Optional explanation

	SourceLine string // The offending source line, for snippets
}

// Error returns a one-line location prefix followed by the message.
func (e *ParseError) Error() string {
	loc := e.Position.String()
	if e.Filename != "" {
		loc = e.Filename + ":" + loc
	}
	msg := fmt.Sprintf("%s: %s: %s", loc, e.Type, e.Message)
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf(" (expected %s)", strings.Join(e.Expected, ", "))
	}
	return msg
}

// Is reports whether target is ErrSyntax.
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

// Snippet renders the source line with a caret under the error column.
func (e *ParseError) Snippet() string {
	if e.SourceLine == "" || e.Position.Line == 0 {
		return ""
	}

	var b strings.Builder
	loc := e.Position.String()
	if e.Filename != "" {
		loc = e.Filename + ":" + loc
	}
	fmt.Fprintf(&b, "  --> %s\n", loc)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Position.Line, e.SourceLine)
	b.WriteString("   | ")
	if e.Position.Column > 0 && e.Position.Column <= len(e.SourceLine)+1 {
		b.WriteString(strings.Repeat(" ", e.Position.Column-1) + "^")
	}
	return b.String()
}

// WarningKind classifies a tolerated irregularity.
type WarningKind int

const (
	WarnUnterminatedQuote WarningKind = iota // Quote folded into text up to end of line
	WarnUnbalancedParen                      // Unmatched "(" inside literal text
	WarnStrayParen                           // Literal ")" at top level
	WarnEmptyOptions                         // FOR /F "" option string
	WarnUndefinedLabel                       // GOTO/CALL target with no label line
	WarnDuplicateLabel                       // Label defined more than once
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnterminatedQuote:
		return "unterminated-quote"
	case WarnUnbalancedParen:
		return "unbalanced-paren"
	case WarnStrayParen:
		return "stray-paren"
	case WarnEmptyOptions:
		return "empty-options"
	case WarnUndefinedLabel:
		return "undefined-label"
	case WarnDuplicateLabel:
		return "duplicate-label"
	default:
		return "warning"
	}
}

// ParseWarning is a tolerated irregularity. The text it refers to is kept in
// the tree exactly as written.
type ParseWarning struct {
	// Location
	Filename string       // Source filename (empty for stdin/string)
	Position ast.Position // Line, column, offset

	// Warning info
	Kind       WarningKind
	Message    string // Clear, specific: "label :L_CHEK is never defined"
	Suggestion string // Actionable fix: "Did you mean :L_CHECK?"
}

func (w ParseWarning) String() string {
	loc := w.Position.String()
	if w.Filename != "" {
		loc = w.Filename + ":" + loc
	}
	s := fmt.Sprintf("%s: warning[%s]: %s", loc, w.Kind, w.Message)
	if w.Suggestion != "" {
		s += " (" + w.Suggestion + ")"
	}
	return s
}
