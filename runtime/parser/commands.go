package parser

import (
	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/runtime/scanner"
)

// separator skips the single space that follows a keyword or command name.
// Only a space counts; a tab is captured as text.
func (p *parser) separator(i int) int {
	if p.s.At(i) == ' ' {
		return i + 1
	}
	return i
}

// echo: ECHO text, ECHO. and ECHO: (punctuation joins the keyword).
func (p *parser) echo(start, end int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagCommandEcho)

	q := end
	if c := p.s.At(end); c == '.' || c == ':' {
		b.Add(p.s.Token(ast.TokenKeyword, start, end+1))
		q = end + 1
	} else {
		b.Add(p.s.Token(ast.TokenKeyword, start, end))
		q = p.separator(end)
	}

	p.capture(b, q, scanner.StopAll)
	return b.Finish(), nil
}

// rem: REM text. The remainder of the line is never interpreted.
func (p *parser) rem(start, end int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagCommandRem)
	b.Add(p.s.Token(ast.TokenKeyword, start, end))
	p.capture(b, p.separator(end), scanner.StopNone)
	return b.Finish(), nil
}

// set covers assignment (SET name=value), arithmetic (SET /A) and display
// (SET, SET prefix). A '=' before the boundary decides assignment.
func (p *parser) set(start, end int) (*ast.Node, error) {
	kw := p.s.Token(ast.TokenKeyword, start, end)

	q := p.s.SkipBlanks(end)
	if isSwitch(p, q, 'a') {
		return p.setExpr(kw, q)
	}

	bd := p.s.Boundary(q, scanner.StopAll, p.depth)
	p.note(bd)
	p.pos = bd.Pos

	if eq := p.s.IndexByte(q, bd.Pos, '='); eq >= 0 {
		if nameEnd := p.trimRight(q, eq); nameEnd > q {
			b := ast.NewBuilder(ast.TagCommandSet)
			b.Add(kw)
			p.assignment(b, q, nameEnd, eq, bd.Pos)
			return b.Finish(), nil
		}
	}

	// Display form keeps the filter trimmed, or the blank run when there
	// is nothing else before the boundary.
	b := ast.NewBuilder(ast.TagCommandSetDisp)
	b.Add(kw)
	if bd.Pos > end {
		from := p.s.SkipBlanks(end)
		to := p.trimRight(from, bd.Pos)
		if to > from {
			b.Add(p.s.Token(ast.TokenText, from, to))
		} else {
			b.Add(p.s.Token(ast.TokenText, end, bd.Pos))
		}
	}
	return b.Finish(), nil
}

// setExpr: SET /A name=expression, or SET /A expression.
func (p *parser) setExpr(kw ast.Token, flagAt int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagCommandSetExpr)
	b.Add(kw)
	b.Add(p.s.Token(ast.TokenFlag, flagAt, flagAt+2))

	q := p.s.SkipBlanks(flagAt + 2)
	bd := p.s.Boundary(q, scanner.StopAll, p.depth)
	p.note(bd)
	p.pos = bd.Pos

	if eq := p.s.IndexByte(q, bd.Pos, '='); eq >= 0 {
		p.assignment(b, q, p.trimRight(q, eq), eq, bd.Pos)
	} else if bd.Pos > q {
		b.Add(p.s.Token(ast.TokenText, q, bd.Pos))
	}
	return b.Finish(), nil
}

// assignment appends name, '=' and the raw value (omitted when empty).
func (p *parser) assignment(b *ast.Builder, nameStart, nameEnd, eq, valueEnd int) {
	if nameEnd > nameStart {
		b.Add(p.s.Token(ast.TokenName, nameStart, nameEnd))
	}
	b.Add(p.s.Token(ast.TokenDelimiter, eq, eq+1))
	if valueEnd > eq+1 {
		b.Add(p.s.Token(ast.TokenText, eq+1, valueEnd))
	}
}

// call: CALL :label args, or CALL path args.
func (p *parser) call(start, end int) (*ast.Node, error) {
	kw := p.s.Token(ast.TokenKeyword, start, end)
	q := p.s.SkipBlanks(end)

	if p.s.At(q) == ':' {
		b := ast.NewBuilder(ast.TagCommandCallLabel)
		b.Add(kw)
		label := ast.NewBuilder(ast.TagLabel)
		label.Add(p.s.Token(ast.TokenDelimiter, q, q+1))
		nameEnd := p.s.Word(q+1, p.depth)
		if nameEnd > q+1 {
			label.Add(p.s.Token(ast.TokenName, q+1, nameEnd))
		}
		b.Add(label.Finish())
		p.capture(b, p.separator(nameEnd), scanner.StopAll)
		return b.Finish(), nil
	}

	b := ast.NewBuilder(ast.TagCommandCallFile)
	b.Add(kw)
	pathEnd := p.s.Word(q, p.depth)
	if pathEnd > q {
		b.Add(p.s.Token(ast.TokenName, q, pathEnd))
	}
	p.capture(b, p.separator(pathEnd), scanner.StopAll)
	return b.Finish(), nil
}

// gotoLabel: GOTO [:]label. Text after the label is kept as one literal.
func (p *parser) gotoLabel(start, end int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagCommandGoto)
	b.Add(p.s.Token(ast.TokenKeyword, start, end))

	q := p.s.SkipBlanks(end)
	if p.s.At(q) == ':' {
		b.Add(p.s.Token(ast.TokenDelimiter, q, q+1))
		q++
	}
	nameEnd := p.s.Word(q, p.depth)
	if nameEnd > q {
		b.Add(p.s.Token(ast.TokenName, q, nameEnd))
	}
	p.pos = nameEnd

	r := p.s.SkipBlanks(nameEnd)
	if bd := p.s.Boundary(r, scanner.StopAll, p.depth); bd.Pos > r {
		p.note(bd)
		b.Add(p.s.Token(ast.TokenText, r, bd.Pos))
		p.pos = bd.Pos
	}
	return b.Finish(), nil
}

// label parses a label line: ':' name [remainder].
func (p *parser) label() (*ast.Node, error) {
	p.hit("label")
	q := p.pos
	b := ast.NewBuilder(ast.TagLabel)
	b.Add(p.s.Token(ast.TokenDelimiter, q, q+1))

	nameEnd := p.s.Word(q+1, p.depth)
	if nameEnd > q+1 {
		b.Add(p.s.Token(ast.TokenName, q+1, nameEnd))
	}

	r := p.s.SkipBlanks(nameEnd)
	bd := p.s.Boundary(r, scanner.StopNone, p.depth)
	if end := p.trimRight(r, bd.Pos); end > r {
		b.Add(p.s.Token(ast.TokenText, r, end))
	}
	p.pos = bd.Pos
	return b.Finish(), nil
}

// exe is the generic command: name plus the raw argument text.
func (p *parser) exe(q int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagCommandExe)
	nameEnd := p.s.Word(q, p.depth)
	if nameEnd == q {
		return nil, p.errorAt(q, ErrorSyntax, "expected a command name", "command", ruleNames()...)
	}
	b.Add(p.s.Token(ast.TokenName, q, nameEnd))
	p.capture(b, p.separator(nameEnd), scanner.StopAll)
	return b.Finish(), nil
}
