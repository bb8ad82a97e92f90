package parser

import (
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
)

// rule maps a leading keyword to the builder of its production.
type rule struct {
	name    string
	keyword string
	// accept, when set, replaces the default "keyword followed by a
	// delimiter" check. start/end bound the keyword's letters.
	accept func(p *parser, start, end int) bool
	build  func(p *parser, start, end int) (*ast.Node, error)
}

// rules is the ordered dispatch table; the first match wins and an
// unmatched line is a generic command. It is read-only after init.
var rules []rule

func init() {
	rules = []rule{
		{name: "echo", keyword: "ECHO", accept: acceptEcho, build: (*parser).echo},
		{name: "rem", keyword: "REM", build: (*parser).rem},
		{name: "set", keyword: "SET", build: (*parser).set},
		{name: "call", keyword: "CALL", build: (*parser).call},
		{name: "goto", keyword: "GOTO", build: (*parser).gotoLabel},
		{name: "if", keyword: "IF", build: (*parser).ifStatement},
		{name: "for /f", keyword: "FOR", accept: acceptForF, build: (*parser).forF},
	}
}

// ruleNames lists the productions tried at a command position.
func ruleNames() []string {
	names := make([]string, 0, len(rules)+3)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, "group", "label", "command")
}

func (r rule) matches(p *parser, start, end int) bool {
	if !strings.EqualFold(p.src[start:end], r.keyword) {
		return false
	}
	if r.accept != nil {
		return r.accept(p, start, end)
	}
	return p.s.Delimits(end, p.depth)
}

// acceptEcho also admits the ECHO. and ECHO: forms.
func acceptEcho(p *parser, _, end int) bool {
	if c := p.s.At(end); c == '.' || c == ':' {
		return true
	}
	return p.s.Delimits(end, p.depth)
}

// acceptForF admits FOR only when followed by the /F switch; plain FOR is
// left to the generic command rule.
func acceptForF(p *parser, _, end int) bool {
	if !p.s.Delimits(end, p.depth) {
		return false
	}
	q := p.s.SkipBlanks(end)
	return isSwitch(p, q, 'f')
}

// isSwitch reports whether a /x switch (any case) stands at q.
func isSwitch(p *parser, q int, letter byte) bool {
	if p.s.At(q) != '/' {
		return false
	}
	c := p.s.At(q + 1)
	if c|0x20 != letter {
		return false
	}
	return p.s.Delimits(q+2, p.depth)
}
