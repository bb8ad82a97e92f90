package parser

import (
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/runtime/scanner"
)

const forExample = `FOR /F "tokens=1,2" %%i IN ('dir /b') DO ECHO %%i`

// forF: FOR /F ["options"] %%v IN (range) DO body.
func (p *parser) forF(start, end int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagStatementForF)
	b.Add(p.s.Token(ast.TokenKeyword, start, end))

	q := p.s.SkipBlanks(end)
	b.Add(p.s.Token(ast.TokenFlag, q, q+2))
	q = p.s.SkipBlanks(q + 2)

	// Options
	if p.s.At(q) == '"' {
		c := p.s.Closing(q, false)
		if c < 0 {
			err := p.errorAt(q, ErrorMissing, "unterminated FOR /F option string", "for /f options", `"`)
			err.Example = forExample
			return nil, err
		}
		if c == q+1 {
			p.warn(q, WarnEmptyOptions, "empty FOR /F option string")
		}
		b.Add(p.s.Token(ast.TokenText, q, c+1))
		q = p.s.SkipBlanks(c + 1)
	}

	// %%variable
	if p.s.At(q) != '%' || p.s.At(q+1) != '%' {
		err := p.errorAt(q, ErrorMissing, "expected a %%variable", "for /f", "%%name")
		err.Example = forExample
		return nil, err
	}
	nameEnd := p.s.Word(q+2, p.depth)
	if nameEnd == q+2 {
		return nil, p.errorAt(q+2, ErrorMissing, "missing FOR variable name after %%", "for /f", "name")
	}
	b.Add(ast.NewNode(ast.TagForParameter,
		p.s.Token(ast.TokenDelimiter, q, q+2),
		p.s.Token(ast.TokenName, q+2, nameEnd),
	))
	q = p.s.SkipBlanks(nameEnd)

	// IN (
	ke := p.s.Keyword(q)
	if !strings.EqualFold(p.src[q:ke], "IN") || !(p.s.Delimits(ke, p.depth) || p.s.At(ke) == '(') {
		err := p.errorAt(q, ErrorMissing, "expected IN after FOR variable", "for /f", "IN")
		err.Example = forExample
		return nil, err
	}
	b.Add(p.s.Token(ast.TokenKeyword, q, ke))
	q = p.s.SkipBlanks(ke)
	if p.s.At(q) != '(' {
		err := p.errorAt(q, ErrorMissing, "expected '(' after IN", "for /f", "(")
		err.Example = forExample
		return nil, err
	}
	b.Add(p.s.Token(ast.TokenDelimiter, q, q+1))
	q = p.s.SkipBlanks(q + 1)

	// Range
	rng, q, err := p.forRange(q)
	if err != nil {
		return nil, err
	}
	b.Add(rng)

	q = p.s.SkipBlanks(q)
	if p.s.At(q) != ')' {
		err := p.errorAt(q, ErrorMissing, "expected ')' to close FOR range", "for /f", ")")
		err.Example = forExample
		return nil, err
	}
	b.Add(p.s.Token(ast.TokenDelimiter, q, q+1))
	q = p.s.SkipBlanks(q + 1)

	// DO body
	ke = p.s.Keyword(q)
	if !strings.EqualFold(p.src[q:ke], "DO") || !(p.s.Delimits(ke, p.depth) || p.s.At(ke) == '(') {
		err := p.errorAt(q, ErrorMissing, "expected DO after FOR range", "for /f", "DO")
		err.Example = forExample
		return nil, err
	}
	b.Add(p.s.Token(ast.TokenKeyword, q, ke))
	p.pos = p.s.SkipBlanks(ke)
	if p.s.AtLineEnd(p.pos) || (p.depth > 0 && p.s.At(p.pos) == ')') {
		return nil, p.errorAt(p.pos, ErrorMissing, "missing command after DO", "for /f", "command", "group")
	}

	body, err := p.line(false)
	if err != nil {
		return nil, err
	}
	b.Add(body)
	return b.Finish(), nil
}

// forRange parses the data source between the parentheses: 'command',
// "text" or a bare file set.
func (p *parser) forRange(q int) (*ast.Node, int, error) {
	var tag ast.Tag
	switch p.s.At(q) {
	case '\'':
		tag = ast.TagForRangeCommand
	case '"':
		tag = ast.TagForRangeText
	default:
		bd := p.s.Boundary(q, scanner.StopClose, p.depth+1)
		if bd.Op != scanner.OpCloseParen {
			err := p.errorAt(bd.Pos, ErrorMissing, "expected ')' to close FOR range", "for /f range", ")")
			err.Example = forExample
			return nil, 0, err
		}
		end := p.trimRight(q, bd.Pos)
		if end == q {
			return nil, 0, p.errorAt(q, ErrorMissing, "empty FOR range", "for /f range", "file set", "'command'", `"text"`)
		}
		return ast.NewNode(ast.TagForRangeFilename, p.s.Token(ast.TokenText, q, end)), bd.Pos, nil
	}

	c := p.s.Closing(q, false)
	if c < 0 {
		err := p.errorAt(q, ErrorMissing, "unterminated quote in FOR range", "for /f range", string(p.s.At(q)))
		err.Example = forExample
		return nil, 0, err
	}
	return ast.NewNode(tag, p.s.Token(ast.TokenText, q, c+1)), c + 1, nil
}
