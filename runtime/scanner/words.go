package scanner

import "github.com/aledsdavies/batparse/core/invariant"

// Word returns the end of the bare word starting at i: command names, call
// paths, labels and redirection targets. A word ends at a blank, a line end,
// one of & | >, or a ')' when inside a group. Quoted runs and caret escapes
// are part of the word.
func (s *Scanner) Word(i, depth int) int {
	j := i
	inQuote := false
	for j < len(s.src) {
		if s.LineEnd(j) > 0 {
			break
		}
		c := s.src[j]
		if inQuote {
			if c == '"' {
				inQuote = false
			}
			j++
			continue
		}
		if c < 128 && (isBlank[c] || isWordBreak[c]) {
			break
		}
		if c == ')' && depth > 0 {
			break
		}
		switch c {
		case '"':
			inQuote = true
		case '^':
			j += 1 + s.escapeWidth(j+1)
			continue
		}
		j++
	}
	invariant.Postcondition(j >= i, "word end must not precede start")
	return j
}

// Keyword returns the end of the run of ASCII letters starting at i.
func (s *Scanner) Keyword(i int) int {
	j := i
	for j < len(s.src) && IsLetter(s.src[j]) {
		j++
	}
	return j
}

// Delimits reports whether the byte at i ends a keyword: end of input, a
// blank, a line end, an operator character, or a group-closing ')'.
func (s *Scanner) Delimits(i, depth int) bool {
	if s.AtLineEnd(i) {
		return true
	}
	c := s.src[i]
	switch {
	case IsBlank(c):
		return true
	case c == '&' || c == '|' || c == '<' || c == '>':
		return true
	case c == ')' && depth > 0:
		return true
	}
	return false
}

// Operand returns the end of an IF operand starting at i. An operand is a
// run of quoted segments and plain bytes. A quoted segment needs its closing
// quote on the same line and honours backslash escapes; a quote without one
// is a plain byte. The operand ends at a blank, a line end, or "==" outside
// a quoted segment.
func (s *Scanner) Operand(i int) int {
	j := i
	for j < len(s.src) {
		if s.LineEnd(j) > 0 {
			break
		}
		c := s.src[j]
		if IsBlank(c) {
			break
		}
		if c == '=' && s.At(j+1) == '=' {
			break
		}
		if c == '"' {
			if k := s.Closing(j, true); k >= 0 {
				j = k + 1
				continue
			}
		}
		j++
	}
	return j
}
