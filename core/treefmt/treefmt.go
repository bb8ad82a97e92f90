// Package treefmt renders a syntax tree in its indented text form.
//
// Each node is written as its tag followed by its children, one per line and
// two spaces deeper. A node whose only child is a token is written on one
// line as tag, a tab, then the token text. Lines holding only whitespace are
// dropped and the output carries no trailing newline, so identical trees
// always render identically.
package treefmt

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/invariant"
)

const indent = "  "

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripColor removes ANSI color codes from s.
func StripColor(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Option configures Write.
type Option func(*options)

type options struct {
	color bool
}

// WithColor colors tag names. The text is unchanged once codes are stripped.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = enabled
	}
}

// Format renders n as plain text.
func Format(n *ast.Node) string {
	return render(n, false)
}

// Write renders n to w followed by a newline.
func Write(w io.Writer, n *ast.Node, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := io.WriteString(w, render(n, o.color)+"\n"); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

func render(n *ast.Node, color bool) string {
	invariant.NotNil(n, "node")

	var b strings.Builder
	pretty(&b, n, 0, color)

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(StripColor(line)) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func pretty(b *strings.Builder, n *ast.Node, level int, color bool) {
	b.WriteString(strings.Repeat(indent, level))
	b.WriteString(Colorize(string(n.Tag()), tagColor(n.Tag()), color))

	children := n.Children()
	if len(children) == 1 {
		if tok, ok := children[0].(ast.Token); ok {
			b.WriteByte('\t')
			b.WriteString(tok.Text)
			b.WriteByte('\n')
			return
		}
	}

	b.WriteByte('\n')
	for _, c := range children {
		switch v := c.(type) {
		case *ast.Node:
			pretty(b, v, level+1, color)
		case ast.Token:
			b.WriteString(strings.Repeat(indent, level+1))
			b.WriteString(v.Text)
			b.WriteByte('\n')
		}
	}
}

func tagColor(tag ast.Tag) string {
	s := string(tag)
	switch {
	case tag.IsTest():
		return ColorYellow
	case strings.HasPrefix(s, "statement_"), strings.HasPrefix(s, "for_"):
		return ColorBlue
	case strings.HasPrefix(s, "redirect_"), tag == ast.TagPipeline, tag == ast.TagCommandLine:
		return ColorGreen
	case tag == ast.TagProgram, tag == ast.TagSubprogram, tag == ast.TagGroup, tag == ast.TagEmptyline:
		return ColorGray
	default:
		return ColorCyan
	}
}
