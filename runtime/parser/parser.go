// Package parser builds the syntax tree of an MS-DOS/Windows batch script.
//
// The parser is a hand-written recursive descent over the boundary queries of
// the scanner package. Every line is dispatched through an ordered rule table
// keyed by its leading keyword; anything unrecognised is a generic command.
// A parse either returns a complete tree or a *ParseError, never both.
package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/invariant"
	"github.com/aledsdavies/batparse/runtime/scanner"
)

// Parse parses source and returns its tree, or a *ParseError.
func Parse(source []byte, opts ...ParserOpt) (*Tree, error) {
	config := newConfig(opts)

	var telemetry *ParseTelemetry
	var startTotal time.Time
	if config.telemetry >= TelemetryBasic {
		telemetry = &ParseTelemetry{RuleHits: make(map[string]int)}
		if config.telemetry >= TelemetryTiming {
			startTotal = time.Now()
		}
	}

	src := string(source)
	p := &parser{
		s:         scanner.New(src, scanner.WithLogger(config.logger)),
		src:       src,
		config:    config,
		logger:    config.logger,
		telemetry: telemetry,
	}
	if config.debug > DebugOff {
		p.debugEvents = make([]DebugEvent, 0, 64)
	}

	root, err := p.program()
	if err != nil {
		p.logger.Debug("parse failed", "file", config.filename, "error", err)
		return nil, err
	}
	invariant.Postcondition(p.depth == 0, "group depth must return to 0, got %d", p.depth)

	if telemetry != nil && config.telemetry >= TelemetryTiming {
		telemetry.ParseTime = time.Since(startTotal)
	}

	tree := &Tree{
		Source:      source,
		Filename:    config.filename,
		Root:        root,
		Warnings:    p.warnings,
		Telemetry:   telemetry,
		DebugEvents: p.debugEvents,
	}

	if config.labelCheck {
		startCheck := time.Now()
		tree.Warnings = append(tree.Warnings, checkLabels(root, config.filename)...)
		if telemetry != nil && config.telemetry >= TelemetryTiming {
			telemetry.CheckTime = time.Since(startCheck)
		}
	}

	if telemetry != nil {
		ast.Walk(root, func(e ast.Element, _ int) bool {
			if _, ok := e.(ast.Token); ok {
				telemetry.TokenCount++
			} else {
				telemetry.NodeCount++
			}
			return true
		})
		telemetry.LineCount = strings.Count(src, "\n")
		if src != "" && !strings.HasSuffix(src, "\n") {
			telemetry.LineCount++
		}
		telemetry.WarningCount = len(tree.Warnings)
		if config.telemetry >= TelemetryTiming {
			telemetry.TotalTime = time.Since(startTotal)
		}
	}

	p.logger.Debug("parse complete", "file", config.filename, "items", root.Len(), "warnings", len(tree.Warnings))
	return tree, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(input string, opts ...ParserOpt) (*Tree, error) {
	return Parse([]byte(input), opts...)
}

// parser holds the state of one parse. It is never shared.
type parser struct {
	s      *scanner.Scanner
	src    string
	pos    int
	depth  int         // Number of open groups
	opens  []ast.Token // Open group tokens, innermost last
	config *ParserConfig
	logger *slog.Logger

	warnings    []ParseWarning
	telemetry   *ParseTelemetry
	debugEvents []DebugEvent
}

// recordDebugEvent records debug events when debug tracing is enabled
func (p *parser) recordDebugEvent(event, context string) {
	if p.config.debug == DebugOff || p.debugEvents == nil {
		return
	}

	p.debugEvents = append(p.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Pos:       p.pos,
		Context:   context,
	})
}

func (p *parser) enter(rule string) {
	if p.config.debug >= DebugPaths {
		p.recordDebugEvent("enter_"+rule, fmt.Sprintf("depth: %d", p.depth))
	}
}

// program parses the whole input.
func (p *parser) program() (*ast.Node, error) {
	p.enter("program")
	b := ast.NewBuilder(ast.TagProgram)

	// Leading blank lines leave no trace.
	p.pos = p.s.SkipBlankLines(0)

	for !p.s.EOF(p.pos) {
		start := p.pos

		item, err := p.item(false)
		if err != nil {
			return nil, err
		}
		b.Add(item)

		if err := p.endOfItem(item); err != nil {
			return nil, err
		}

		// A redirected top-level command leaves its line break behind,
		// which surfaces as an emptyline marker below.
		if item.Tag() != ast.TagCommandOneline {
			p.pos += p.s.LineEnd(p.pos)
		}

		if marker, ok := p.blankLines(); ok && !p.s.EOF(p.pos) {
			b.Add(ast.NewNode(ast.TagEmptyline, marker))
		}

		invariant.Invariant(p.pos > start, "parser must advance past offset %d", start)
	}

	return b.Finish(), nil
}

// blankLines consumes line breaks up to the next content. A run of breaks
// becomes one marker token spanning from the first break to the last.
func (p *parser) blankLines() (ast.Token, bool) {
	start, end := -1, p.pos
	for {
		q := p.s.SkipBlanks(end)
		w := p.s.LineEnd(q)
		if w == 0 {
			break
		}
		if start < 0 {
			start = q
		}
		end = q + w
	}
	p.pos = p.s.SkipBlanks(end)
	if start < 0 {
		return ast.Token{}, false
	}
	return p.s.Token(ast.TokenLineBreak, start, end), true
}

// endOfItem checks that nothing but blanks follows an item on its line.
func (p *parser) endOfItem(item *ast.Node) error {
	q := p.s.SkipBlanks(p.pos)
	if p.s.AtLineEnd(q) || (p.depth > 0 && p.s.At(q) == ')') {
		p.pos = q
		return nil
	}
	if p.s.At(q) == ')' {
		return p.errorAt(q, ErrorUnexpected, "unexpected ')' with no open group", string(item.Tag()))
	}
	return p.errorAt(q, ErrorSyntax, fmt.Sprintf("unexpected text after %s", item.Tag()), string(item.Tag()),
		"end of line", "redirection", "|", "&", "&&", "||")
}

// item parses one program or subprogram entry: a label line or a command line.
// inBlock marks entries of a subprogram.
func (p *parser) item(inBlock bool) (*ast.Node, error) {
	p.pos = p.s.SkipBlanks(p.pos)
	if p.s.At(p.pos) == ':' {
		return p.label()
	}
	return p.line(inBlock)
}

// line parses commands joined by & && || into a flat command_line.
func (p *parser) line(inBlock bool) (*ast.Node, error) {
	p.enter("line")
	first, err := p.pipeline(inBlock)
	if err != nil {
		return nil, err
	}

	q := p.s.SkipBlanks(p.pos)
	op, w := p.s.OperatorAt(q, true)
	if !op.IsChain() {
		return first, nil
	}

	b := ast.NewBuilder(ast.TagCommandLine)
	b.Add(first)
	for op.IsChain() {
		b.Add(p.s.Token(ast.TokenOperator, q, q+w))
		p.pos = p.s.SkipBlanks(q + w)
		if err := p.expectCommand(op, "command line"); err != nil {
			return nil, err
		}
		next, err := p.pipeline(false)
		if err != nil {
			return nil, err
		}
		b.Add(next)

		q = p.s.SkipBlanks(p.pos)
		op, w = p.s.OperatorAt(q, true)
	}
	return b.Finish(), nil
}

// pipeline parses cmd | cmd. Longer pipelines nest to the right.
func (p *parser) pipeline(inBlock bool) (*ast.Node, error) {
	left, err := p.oneline(inBlock)
	if err != nil {
		return nil, err
	}

	q := p.s.SkipBlanks(p.pos)
	op, w := p.s.OperatorAt(q, true)
	if op != scanner.OpPipe {
		return left, nil
	}

	p.enter("pipeline")
	b := ast.NewBuilder(ast.TagPipeline)
	b.Add(left)
	b.Add(p.s.Token(ast.TokenOperator, q, q+w))
	p.pos = p.s.SkipBlanks(q + w)
	if err := p.expectCommand(op, "pipeline"); err != nil {
		return nil, err
	}
	right, err := p.pipeline(false)
	if err != nil {
		return nil, err
	}
	b.Add(right)
	return b.Finish(), nil
}

// oneline parses a command with the redirections around it. Without any
// redirection the command node is returned unwrapped.
func (p *parser) oneline(inBlock bool) (*ast.Node, error) {
	var prefix []*ast.Node
	for {
		q := p.s.SkipBlanks(p.pos)
		if op, _ := p.s.OperatorAt(q, true); !op.IsRedirect() {
			p.pos = q
			break
		}
		r, err := p.redirect(q)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, r)
	}

	cmd, err := p.command()
	if err != nil {
		return nil, err
	}

	var suffix []ast.Element
	for {
		q := p.s.SkipBlanks(p.pos)
		if op, _ := p.s.OperatorAt(q, true); op.IsRedirect() {
			r, err := p.redirect(q)
			if err != nil {
				return nil, err
			}
			suffix = append(suffix, r)
			continue
		}
		// Text after a trailing redirection is kept as written.
		if len(suffix) > 0 && !p.atStructural(q) {
			bd := p.s.Boundary(q, scanner.StopAll, p.depth)
			if bd.Pos > q {
				p.note(bd)
				suffix = append(suffix, p.s.Token(ast.TokenText, q, bd.Pos))
				p.pos = bd.Pos
				continue
			}
		}
		break
	}

	if len(prefix)+len(suffix) == 0 {
		return cmd, nil
	}

	tag := ast.TagCommandOneline
	if inBlock {
		q := p.s.SkipBlanks(p.pos)
		if op, _ := p.s.OperatorAt(q, true); op != scanner.OpPipe && !op.IsChain() {
			tag = ast.TagSubcommandOneline
		}
	}

	b := ast.NewBuilder(tag)
	for _, r := range prefix {
		b.Add(r)
	}
	b.Add(cmd)
	for _, r := range suffix {
		b.Add(r)
	}
	return b.Finish(), nil
}

// atStructural reports whether q ends the current command: a line end, an
// operator, or the close of the enclosing group.
func (p *parser) atStructural(q int) bool {
	if p.s.AtLineEnd(q) {
		return true
	}
	op, _ := p.s.OperatorAt(q, true)
	switch {
	case op == scanner.OpCloseParen:
		return p.depth > 0
	case op != scanner.OpNone:
		return true
	}
	return false
}

// redirect parses an operator at q and its target.
func (p *parser) redirect(q int) (*ast.Node, error) {
	p.enter("redirect")
	op, w := p.s.OperatorAt(q, true)
	invariant.Precondition(op.IsRedirect(), "redirect called at %v", op)

	opTok := p.s.Token(ast.TokenOperator, q, q+w)
	r := p.s.SkipBlanks(q + w)

	var end int
	if p.s.At(r) == '&' && scanner.IsDigit(p.s.At(r+1)) {
		end = r + 2
	} else {
		end = p.s.Word(r, p.depth)
	}
	if end == r {
		err := p.errorAt(r, ErrorMissing, fmt.Sprintf("missing redirection target after '%s'", opTok.Text),
			"redirection", "file name", "nul", "&1")
		err.Example = "ECHO done >> %LOGFILE% 2>&1"
		return nil, err
	}

	tag := ast.TagRedirectStdout
	if op.IsStderr() {
		tag = ast.TagRedirectStderr
	}
	p.pos = end
	return ast.NewNode(tag, opTok, p.s.Token(ast.TokenText, r, end)), nil
}

// group parses ( subprogram ).
func (p *parser) group() (*ast.Node, error) {
	p.enter("group")
	invariant.Precondition(p.s.At(p.pos) == '(', "group must start at '('")

	depthBefore := p.depth
	open := p.s.Token(ast.TokenGroupOpen, p.pos, p.pos+1)
	p.pos++
	p.depth++
	p.opens = append(p.opens, open)

	body, err := p.subprogram()
	if err != nil {
		return nil, err
	}

	invariant.Invariant(p.s.At(p.pos) == ')', "subprogram must stop at ')'")
	closeTok := p.s.Token(ast.TokenGroupClose, p.pos, p.pos+1)
	p.pos++
	p.depth--
	p.opens = p.opens[:len(p.opens)-1]

	invariant.Postcondition(p.depth == depthBefore, "group depth %d must be restored to %d", p.depth, depthBefore)
	return ast.NewNode(ast.TagGroup, open, body, closeTok), nil
}

// subprogram parses group items up to the matching ')'.
func (p *parser) subprogram() (*ast.Node, error) {
	b := ast.NewBuilder(ast.TagSubprogram)
	for {
		p.pos = p.s.SkipBlankLines(p.pos)
		if p.s.EOF(p.pos) {
			open := p.opens[len(p.opens)-1]
			err := p.errorAt(p.pos, ErrorMissing, "missing ')' to close group", "group", ")")
			err.Note = fmt.Sprintf("group opened at %s", open.Pos)
			return nil, err
		}
		if p.s.At(p.pos) == ')' {
			return b.Finish(), nil
		}

		start := p.pos
		item, err := p.item(true)
		if err != nil {
			return nil, err
		}
		b.Add(item)
		if err := p.endOfItem(item); err != nil {
			return nil, err
		}
		invariant.Invariant(p.pos > start, "parser must advance past offset %d", start)
	}
}

// command dispatches on the leading keyword.
func (p *parser) command() (*ast.Node, error) {
	q := p.s.SkipBlanks(p.pos)
	for p.s.At(q) == '@' {
		q = p.s.SkipBlanks(q + 1)
	}
	p.pos = q

	switch {
	case p.s.AtLineEnd(q):
		return nil, p.errorAt(q, ErrorMissing, "missing command", "command", ruleNames()...)
	case p.s.At(q) == '(':
		p.hit("group")
		return p.group()
	case p.s.At(q) == ')':
		if p.depth == 0 {
			return nil, p.errorAt(q, ErrorUnexpected, "unexpected ')' with no open group", "command", ruleNames()...)
		}
		return nil, p.errorAt(q, ErrorMissing, "missing command before ')'", "command", ruleNames()...)
	}
	if op, _ := p.s.OperatorAt(q, true); op == scanner.OpPipe || op.IsChain() {
		return nil, p.errorAt(q, ErrorUnexpected, fmt.Sprintf("unexpected '%s' where a command was expected", op),
			"command", ruleNames()...)
	}

	end := p.s.Keyword(q)
	for _, r := range rules {
		if r.matches(p, q, end) {
			p.hit(r.name)
			p.logger.Debug("rule matched", "rule", r.name, "offset", q)
			return r.build(p, q, end)
		}
	}
	p.hit("command")
	return p.exe(q)
}

// expectCommand checks that a command follows the operator just consumed.
func (p *parser) expectCommand(op scanner.Operator, context string) error {
	q := p.pos
	switch {
	case p.s.AtLineEnd(q):
	case p.depth > 0 && p.s.At(q) == ')':
	default:
		if next, _ := p.s.OperatorAt(q, true); next != scanner.OpPipe && !next.IsChain() {
			return nil
		}
	}
	err := p.errorAt(q, ErrorMissing, fmt.Sprintf("missing command after '%s'", op), context, ruleNames()...)
	err.Suggestion = fmt.Sprintf("Add a command after '%s' or remove the operator", op)
	return err
}

// capture appends the literal text from `from` up to the next boundary.
func (p *parser) capture(b *ast.Builder, from int, stops scanner.Stops) scanner.Boundary {
	bd := p.s.Boundary(from, stops, p.depth)
	if bd.Pos > from {
		b.Add(p.s.Token(ast.TokenText, from, bd.Pos))
	}
	p.note(bd)
	p.pos = bd.Pos
	return bd
}

// note records the tolerated irregularities of a boundary scan.
func (p *parser) note(bd scanner.Boundary) {
	if p.config.debug >= DebugDetailed {
		p.recordDebugEvent("boundary", fmt.Sprintf("op: %s, pos: %d", bd.Op, bd.Pos))
	}
	if bd.OpenQuote >= 0 {
		p.warn(bd.OpenQuote, WarnUnterminatedQuote, "unterminated quote runs to end of line")
	}
	if bd.OpenParens > 0 {
		p.warn(bd.Pos, WarnUnbalancedParen, fmt.Sprintf("%d unmatched '(' kept as text", bd.OpenParens))
	}
	if bd.StrayClose >= 0 {
		p.warn(bd.StrayClose, WarnStrayParen, "')' outside any group kept as text")
	}
}

func (p *parser) warn(pos int, kind WarningKind, msg string) {
	p.warnings = append(p.warnings, ParseWarning{
		Filename: p.config.filename,
		Position: p.s.Position(pos),
		Kind:     kind,
		Message:  msg,
	})
}

func (p *parser) hit(rule string) {
	if p.telemetry != nil {
		p.telemetry.RuleHits[rule]++
	}
	p.enter(rule)
}

// trimRight returns end moved left over trailing blanks, not before start.
func (p *parser) trimRight(start, end int) int {
	for end > start && scanner.IsBlank(p.s.At(end-1)) {
		end--
	}
	return end
}

// errorAt builds a ParseError located at offset pos.
func (p *parser) errorAt(pos int, typ ErrorType, msg, context string, expected ...string) *ParseError {
	position := p.s.Position(pos)
	err := &ParseError{
		Filename:   p.config.filename,
		Position:   position,
		Type:       typ,
		Message:    msg,
		Context:    context,
		Expected:   expected,
		Got:        p.describe(pos),
		SourceLine: p.s.LineText(position.Line),
	}
	p.recordDebugEvent("error", msg)
	return err
}

// describe names what sits at pos, for error messages.
func (p *parser) describe(pos int) string {
	switch {
	case p.s.EOF(pos):
		return "end of input"
	case p.s.LineEnd(pos) > 0:
		return "end of line"
	}
	if op, _ := p.s.OperatorAt(pos, true); op != scanner.OpNone {
		return "'" + op.String() + "'"
	}
	end := p.s.Word(pos, p.depth)
	if end == pos {
		end = pos + 1
	}
	return "'" + p.s.Slice(pos, end) + "'"
}
