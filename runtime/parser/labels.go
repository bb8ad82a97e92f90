package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/batparse/core/ast"
)

// checkLabels reports GOTO and CALL targets that name no label in the
// script, and labels defined more than once. Label names compare without
// regard to case. Targets built from variables are not checked, and
// :EOF is always defined.
func checkLabels(root *ast.Node, filename string) []ParseWarning {
	var warnings []ParseWarning

	defined := make(map[string]bool)
	var names []string
	for _, l := range labelLines(root) {
		name, ok := labelName(l)
		if !ok {
			continue
		}
		key := strings.ToUpper(name)
		if defined[key] {
			warnings = append(warnings, ParseWarning{
				Filename: filename,
				Position: l.Tokens()[0].Pos,
				Kind:     WarnDuplicateLabel,
				Message:  fmt.Sprintf("label :%s is defined more than once", name),
			})
			continue
		}
		defined[key] = true
		names = append(names, name)
	}

	ast.Walk(root, func(e ast.Element, _ int) bool {
		n, ok := e.(*ast.Node)
		if !ok {
			return false
		}
		target, pos, ok := jumpTarget(n)
		if !ok || dynamicTarget(target) || defined[strings.ToUpper(target)] {
			return true
		}
		w := ParseWarning{
			Filename: filename,
			Position: pos,
			Kind:     WarnUndefinedLabel,
			Message:  fmt.Sprintf("label :%s is not defined", target),
		}
		if s := suggest(target, names); s != "" {
			w.Suggestion = fmt.Sprintf("Did you mean :%s?", s)
		}
		warnings = append(warnings, w)
		return true
	})
	return warnings
}

// jumpTarget returns the label named by a GOTO or CALL :label node.
func jumpTarget(n *ast.Node) (string, ast.Position, bool) {
	switch n.Tag() {
	case ast.TagCommandGoto:
		for _, tok := range n.Tokens() {
			if tok.Kind == ast.TokenName {
				return tok.Text, tok.Pos, true
			}
		}
	case ast.TagCommandCallLabel:
		if l := n.Find(ast.TagLabel); l != nil {
			for _, tok := range l.Tokens() {
				if tok.Kind == ast.TokenName {
					return tok.Text, tok.Pos, true
				}
			}
		}
	}
	return "", ast.Position{}, false
}

func dynamicTarget(name string) bool {
	return strings.ContainsAny(name, "%!") || strings.EqualFold(name, "EOF")
}
