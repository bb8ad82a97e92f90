package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/runtime/scanner"
)

// compareOps are the word comparison operators accepted besides "==".
var compareOps = []string{"EQU", "NEQ", "LSS", "LEQ", "GTR", "GEQ"}

func isCompareOp(word string) bool {
	for _, op := range compareOps {
		if strings.EqualFold(word, op) {
			return true
		}
	}
	return false
}

// ifStatement: IF test consequent [ELSE body].
// ELSE is only recognised right after a parenthesised consequent.
func (p *parser) ifStatement(start, end int) (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagStatementIf)
	b.Add(p.s.Token(ast.TokenKeyword, start, end))

	test, q, err := p.condition(p.s.SkipBlanks(end))
	if err != nil {
		return nil, err
	}
	b.Add(test)

	p.pos = p.s.SkipBlanks(q)
	if p.s.AtLineEnd(p.pos) || (p.depth > 0 && p.s.At(p.pos) == ')') {
		err := p.errorAt(p.pos, ErrorMissing, "missing command after IF condition", "if statement", "command", "group")
		err.Example = `IF EXIST %FILE% (ECHO found) ELSE (ECHO missing)`
		return nil, err
	}
	body, err := p.line(false)
	if err != nil {
		return nil, err
	}
	b.Add(body)

	if body.Tag() == ast.TagGroup {
		r := p.s.SkipBlanks(p.pos)
		ke := p.s.Keyword(r)
		if strings.EqualFold(p.src[r:ke], "ELSE") && (p.s.Delimits(ke, p.depth) || p.s.At(ke) == '(') {
			elseNode, err := p.elseClause(r, ke)
			if err != nil {
				return nil, err
			}
			b.Add(elseNode)
		}
	}
	return b.Finish(), nil
}

// elseClause: ELSE followed by a group, a nested IF or a command line.
func (p *parser) elseClause(start, end int) (*ast.Node, error) {
	p.enter("else")
	b := ast.NewBuilder(ast.TagStatementElse)
	b.Add(p.s.Token(ast.TokenKeyword, start, end))

	p.pos = p.s.SkipBlanks(end)
	if p.s.AtLineEnd(p.pos) || (p.depth > 0 && p.s.At(p.pos) == ')') {
		return nil, p.errorAt(p.pos, ErrorMissing, "missing command after ELSE", "else clause", "command", "group", "if")
	}
	body, err := p.line(false)
	if err != nil {
		return nil, err
	}
	b.Add(body)
	return b.Finish(), nil
}

// condition parses [/I] [NOT] followed by EXIST, DEFINED, ERRORLEVEL or a
// comparison. It returns the test node and the offset after it.
func (p *parser) condition(q int) (*ast.Node, int, error) {
	p.enter("condition")
	var lead []ast.Token
	negated := false
	for {
		if isSwitch(p, q, 'i') {
			lead = append(lead, p.s.Token(ast.TokenFlag, q, q+2))
			q = p.s.SkipBlanks(q + 2)
			continue
		}
		ke := p.s.Keyword(q)
		if !negated && strings.EqualFold(p.src[q:ke], "NOT") && scanner.IsBlank(p.s.At(ke)) {
			negated = true
			lead = append(lead, p.s.Token(ast.TokenKeyword, q, ke))
			q = p.s.SkipBlanks(ke)
			continue
		}
		break
	}

	pick := func(pos, neg ast.Tag) ast.Tag {
		if negated {
			return neg
		}
		return pos
	}

	b := func(tag ast.Tag) *ast.Builder {
		nb := ast.NewBuilder(tag)
		for _, t := range lead {
			nb.Add(t)
		}
		return nb
	}

	ke := p.s.Keyword(q)
	word := p.src[q:ke]
	// A unary keyword ending the line is a test with its operand missing.
	unary := ke > q && (scanner.IsBlank(p.s.At(ke)) || p.s.AtLineEnd(ke))
	switch {
	case unary && strings.EqualFold(word, "EXIST"):
		nb := b(pick(ast.TagTestExist, ast.TagTestNotExist))
		end, err := p.unaryOperand(nb, q, ke, "path", "IF EXIST %CONFIG% ECHO found")
		if err != nil {
			return nil, 0, err
		}
		return nb.Finish(), end, nil

	case unary && strings.EqualFold(word, "DEFINED"):
		nb := b(pick(ast.TagTestDefined, ast.TagTestNotDefined))
		end, err := p.unaryOperand(nb, q, ke, "variable name", "IF DEFINED INPUT ECHO %INPUT%")
		if err != nil {
			return nil, 0, err
		}
		return nb.Finish(), end, nil

	case unary && strings.EqualFold(word, "ERRORLEVEL"):
		nb := b(pick(ast.TagTestErrorlevel, ast.TagTestNotErrorlevel))
		nb.Add(p.s.Token(ast.TokenKeyword, q, ke))
		r := p.s.SkipBlanks(ke)
		end := p.integer(r)
		if end == r || !p.s.Delimits(end, p.depth) {
			err := p.errorAt(r, ErrorInvalid, "ERRORLEVEL expects an integer", "errorlevel test", "integer")
			err.Example = "IF ERRORLEVEL 1 GOTO FAILED"
			return nil, 0, err
		}
		nb.Add(p.s.Token(ast.TokenText, r, end))
		return nb.Finish(), end, nil
	}

	nb := b(pick(ast.TagTestComp, ast.TagTestNotComp))
	end, err := p.comparison(nb, q)
	if err != nil {
		return nil, 0, err
	}
	return nb.Finish(), end, nil
}

// unaryOperand appends the keyword of an EXIST/DEFINED test and its operand.
func (p *parser) unaryOperand(nb *ast.Builder, start, end int, what, example string) (int, error) {
	nb.Add(p.s.Token(ast.TokenKeyword, start, end))
	r := p.s.SkipBlanks(end)
	oe := p.s.Operand(r)
	if oe == r {
		err := p.errorAt(r, ErrorMissing, fmt.Sprintf("missing %s after %s", what, strings.ToUpper(p.src[start:end])),
			"if condition", what)
		err.Example = example
		return 0, err
	}
	nb.Add(p.s.Token(ast.TokenText, r, oe))
	return oe, nil
}

// comparison appends left, operator and right of a string comparison.
func (p *parser) comparison(nb *ast.Builder, q int) (int, error) {
	left := p.s.Operand(q)
	if left == q {
		return 0, p.errorAt(q, ErrorMissing, "missing IF condition", "if condition",
			"comparison", "EXIST", "DEFINED", "ERRORLEVEL")
	}
	nb.Add(p.s.Token(ast.TokenText, q, left))

	r := p.s.SkipBlanks(left)
	var opEnd int
	switch ke := p.s.Keyword(r); {
	case p.s.At(r) == '=' && p.s.At(r+1) == '=':
		opEnd = r + 2
	case ke > r && isCompareOp(p.src[r:ke]) && scanner.IsBlank(p.s.At(ke)):
		opEnd = ke
	default:
		got := p.src[r:p.s.Word(r, p.depth)]
		if got == "" {
			return 0, p.errorAt(r, ErrorMissing, "missing comparison operator", "if condition",
				append([]string{"=="}, compareOps...)...)
		}
		err := p.errorAt(r, ErrorInvalid, fmt.Sprintf("unknown comparison operator %q", got), "if condition",
			append([]string{"=="}, compareOps...)...)
		if s := suggest(got, compareOps); s != "" {
			err.Suggestion = fmt.Sprintf("Did you mean %s?", s)
		}
		err.Example = `IF "%COUNT%" GEQ "10" ECHO many`
		err.Note = "comparison operators are ==, EQU, NEQ, LSS, LEQ, GTR and GEQ"
		return 0, err
	}
	nb.Add(p.s.Token(ast.TokenOperator, r, opEnd))

	rs := p.s.SkipBlanks(opEnd)
	right := p.s.Operand(rs)
	if right == rs {
		return 0, p.errorAt(rs, ErrorMissing, "missing right operand of comparison", "if condition", "operand")
	}
	nb.Add(p.s.Token(ast.TokenText, rs, right))
	return right, nil
}

// integer returns the end of an optionally signed decimal integer at q, or q.
func (p *parser) integer(q int) int {
	i := q
	if c := p.s.At(i); c == '-' || c == '+' {
		i++
	}
	digits := i
	for scanner.IsDigit(p.s.At(i)) {
		i++
	}
	if i == digits {
		return q
	}
	return i
}
