package ast

// Walk visits n and its descendants in pre-order. depth is 0 for n itself.
// Returning false from fn skips the children of the visited node.
func Walk(n *Node, fn func(e Element, depth int) bool) {
	walk(n, 0, fn)
}

func walk(e Element, depth int, fn func(Element, int) bool) {
	if !fn(e, depth) {
		return
	}
	if n, ok := e.(*Node); ok {
		for _, c := range n.children {
			walk(c, depth+1, fn)
		}
	}
}

// Leaves returns every token of the tree in source order.
func Leaves(n *Node) []Token {
	var out []Token
	Walk(n, func(e Element, _ int) bool {
		if tok, ok := e.(Token); ok {
			out = append(out, tok)
		}
		return true
	})
	return out
}

// Collect returns every node with the given tag, in pre-order.
func Collect(n *Node, tag Tag) []*Node {
	var out []*Node
	Walk(n, func(e Element, _ int) bool {
		if node, ok := e.(*Node); ok && node.tag == tag {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Depth returns the group nesting depth after consuming tokens.
// Only group delimiters count; parens inside literal text never do.
func Depth(tokens []Token) int {
	depth := 0
	for _, t := range tokens {
		switch t.Kind {
		case TokenGroupOpen:
			depth++
		case TokenGroupClose:
			depth--
		}
	}
	return depth
}
