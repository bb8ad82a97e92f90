package scanner

import (
	"fmt"

	"github.com/aledsdavies/batparse/core/invariant"
)

// Operator is a structural boundary recognised by the scanner.
type Operator uint8

const (
	OpNone              Operator = iota
	OpRedirectOut                // > or 1>
	OpRedirectAppend             // >> or 1>>
	OpRedirectErr                // 2>
	OpRedirectErrAppend          // 2>>
	OpPipe                       // |
	OpAnd                        // &&
	OpOr                         // ||
	OpSeq                        // &
	OpCloseParen                 // ) closing the enclosing group
	OpLineEnd                    // LF or CRLF
	OpEOF                        // end of input
)

var operatorNames = [...]string{
	OpNone:              "none",
	OpRedirectOut:       ">",
	OpRedirectAppend:    ">>",
	OpRedirectErr:       "2>",
	OpRedirectErrAppend: "2>>",
	OpPipe:              "|",
	OpAnd:               "&&",
	OpOr:                "||",
	OpSeq:               "&",
	OpCloseParen:        ")",
	OpLineEnd:           "end of line",
	OpEOF:               "end of input",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", o)
}

// IsRedirect reports whether o is a redirection operator.
func (o Operator) IsRedirect() bool {
	return o >= OpRedirectOut && o <= OpRedirectErrAppend
}

// IsStderr reports whether o redirects standard error.
func (o Operator) IsStderr() bool {
	return o == OpRedirectErr || o == OpRedirectErrAppend
}

// IsChain reports whether o joins commands on one logical line.
func (o Operator) IsChain() bool {
	return o == OpAnd || o == OpOr || o == OpSeq
}

// IsTerminal reports whether o ends the scanning region.
func (o Operator) IsTerminal() bool {
	return o == OpLineEnd || o == OpEOF
}

// Stops selects which operators end a capture. Line ends always do.
type Stops uint8

const (
	StopRedirect Stops = 1 << iota
	StopPipe
	StopChain
	StopClose

	StopNone Stops = 0
	StopAll        = StopRedirect | StopPipe | StopChain | StopClose
)

func (o Operator) stop() Stops {
	switch {
	case o.IsRedirect():
		return StopRedirect
	case o == OpPipe:
		return StopPipe
	case o.IsChain():
		return StopChain
	case o == OpCloseParen:
		return StopClose
	}
	return StopNone
}

// Boundary is the result of a boundary scan.
type Boundary struct {
	Op  Operator // Operator found, or OpLineEnd/OpEOF when the region has none
	Pos int      // Offset where the operator starts
	End int      // Offset just past the operator

	OpenQuote  int // Offset of an unterminated quote folded into the text, or -1
	OpenParens int // Number of "(" in the text left unmatched
	StrayClose int // Offset of a literal ")" with no opener at top level, or -1
}

// Found reports whether a structural operator (not a line end) ended the scan.
func (b Boundary) Found() bool {
	return !b.Op.IsTerminal()
}

// OperatorAt recognises an operator starting at i. wordStart tells whether
// i begins a word, which is required for the digit forms 1> and 2>.
// The longest operator at i wins.
func (s *Scanner) OperatorAt(i int, wordStart bool) (Operator, int) {
	if i >= len(s.src) {
		return OpEOF, 0
	}
	if w := s.LineEnd(i); w > 0 {
		return OpLineEnd, w
	}
	next := s.At(i + 1)
	switch c := s.src[i]; c {
	case '|':
		if next == '|' {
			return OpOr, 2
		}
		return OpPipe, 1
	case '&':
		if next == '&' {
			return OpAnd, 2
		}
		return OpSeq, 1
	case '>':
		if next == '>' {
			return OpRedirectAppend, 2
		}
		return OpRedirectOut, 1
	case ')':
		return OpCloseParen, 1
	case '1', '2':
		if !wordStart || next != '>' {
			break
		}
		appendOp := s.At(i+2) == '>'
		switch {
		case c == '2' && appendOp:
			return OpRedirectErrAppend, 3
		case c == '2':
			return OpRedirectErr, 2
		case appendOp:
			return OpRedirectAppend, 3
		default:
			return OpRedirectOut, 2
		}
	}
	return OpNone, 0
}

// Boundary scans from offset from to the leftmost structural operator in
// stops, or to the end of the line.
//
// State is local to the capture: quotes toggle on '"' and shield everything
// up to the closing quote or the end of the line; a caret escapes the next
// byte (a line terminator included); '(' and ')' inside the text balance
// each other. A ')' that is not balanced by an earlier '(' of the same
// capture closes the enclosing group when depth > 0 and StopClose is set;
// at depth 0 it is literal.
func (s *Scanner) Boundary(from int, stops Stops, depth int) Boundary {
	invariant.InRange(from, 0, len(s.src), "from")
	invariant.Precondition(depth >= 0, "depth must not be negative, got %d", depth)

	b := Boundary{Op: OpEOF, Pos: len(s.src), End: len(s.src), OpenQuote: -1, StrayClose: -1}
	inQuote := false
	quoteAt := -1
	local := 0

	i := from
scan:
	for i < len(s.src) {
		if w := s.LineEnd(i); w > 0 {
			b.Op, b.Pos, b.End = OpLineEnd, i, i+w
			break
		}
		c := s.src[i]
		if inQuote {
			if c == '"' {
				inQuote = false
			}
			i++
			continue
		}
		switch c {
		case '"':
			inQuote, quoteAt = true, i
			i++
			continue
		case '^':
			i += 1 + s.escapeWidth(i+1)
			continue
		case '(':
			local++
			i++
			continue
		case ')':
			switch {
			case local > 0:
				local--
			case depth > 0 && stops&StopClose != 0:
				b.Op, b.Pos, b.End = OpCloseParen, i, i+1
				break scan
			case depth == 0 && b.StrayClose < 0:
				b.StrayClose = i
			}
			i++
			continue
		}

		wordStart := i == from || IsBlank(s.src[i-1])
		if op, w := s.OperatorAt(i, wordStart); op != OpNone && stops&op.stop() != 0 {
			b.Op, b.Pos, b.End = op, i, i+w
			break
		}
		i++
	}

	if inQuote {
		b.OpenQuote = quoteAt
	}
	b.OpenParens = local

	invariant.Postcondition(b.Pos >= from && b.End >= b.Pos, "boundary must not precede scan start")
	s.logger.Debug("boundary", "from", from, "op", b.Op.String(), "pos", b.Pos, "depth", depth)
	return b
}
