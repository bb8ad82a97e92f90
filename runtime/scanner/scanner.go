// Package scanner implements the boundary-finding service used by the batch
// parser.
//
// Batch syntax is context sensitive: parentheses, quotes, carets and
// operators are structural in one place and literal text in another. The
// scanner never builds nodes. It answers positional questions ("where does
// the text that starts here end?") while tracking quote, escape and
// paren-depth state for the region being captured.
package scanner

import (
	"log/slog"
	"os"
	"sort"

	"github.com/aledsdavies/batparse/core/ast"
	"github.com/aledsdavies/batparse/core/invariant"
)

// Scanner answers boundary queries over one immutable source buffer.
// It keeps no cursor; the parser owns the position.
type Scanner struct {
	src    string
	lines  []int // Byte offset of the start of each line
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger routes scanner debug logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scanner over src.
func New(src string, opts ...Option) *Scanner {
	s := &Scanner{
		src:    src,
		lines:  []int{0},
		logger: defaultLogger(),
	}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultLogger is silent unless BATPARSE_DEBUG_SCANNER is set.
func defaultLogger() *slog.Logger {
	if os.Getenv("BATPARSE_DEBUG_SCANNER") == "" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Source returns the scanned text.
func (s *Scanner) Source() string {
	return s.src
}

// Len returns the length of the source in bytes.
func (s *Scanner) Len() int {
	return len(s.src)
}

// At returns the byte at i, or 0 past the end.
func (s *Scanner) At(i int) byte {
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// Slice returns src[start:end].
func (s *Scanner) Slice(start, end int) string {
	return s.src[start:end]
}

// EOF reports whether i is at or past the end of input.
func (s *Scanner) EOF(i int) bool {
	return i >= len(s.src)
}

// Position converts a byte offset into a line/column position.
func (s *Scanner) Position(offset int) ast.Position {
	invariant.InRange(offset, 0, len(s.src), "offset")
	line := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
	return ast.Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - s.lines[line] + 1,
	}
}

// LineText returns the full text of the 1-based line, without terminator.
func (s *Scanner) LineText(line int) string {
	if line < 1 || line > len(s.lines) {
		return ""
	}
	start := s.lines[line-1]
	end := len(s.src)
	if line < len(s.lines) {
		end = s.lines[line] - 1
	}
	if end > start && s.src[end-1] == '\r' {
		end--
	}
	return s.src[start:end]
}

// Token classifies src[start:end].
func (s *Scanner) Token(kind ast.TokenKind, start, end int) ast.Token {
	invariant.Precondition(start >= 0 && start < end && end <= len(s.src),
		"token span [%d, %d) invalid for source of length %d", start, end, len(s.src))
	return ast.Token{
		Kind: kind,
		Text: s.src[start:end],
		Span: ast.Span{Start: start, End: end},
		Pos:  s.Position(start),
	}
}

// LineEnd returns the width of the line terminator at i: 1 for LF, 2 for
// CRLF, 0 when i is not at a line end.
func (s *Scanner) LineEnd(i int) int {
	if i >= len(s.src) {
		return 0
	}
	switch s.src[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(s.src) && s.src[i+1] == '\n' {
			return 2
		}
	}
	return 0
}

// AtLineEnd reports whether i is at a line terminator or at end of input.
func (s *Scanner) AtLineEnd(i int) bool {
	return s.EOF(i) || s.LineEnd(i) > 0
}

// SkipBlanks returns the first offset at or after i that is not an
// intra-line blank. A lone CR counts as a blank.
func (s *Scanner) SkipBlanks(i int) int {
	for i < len(s.src) {
		ch := s.src[i]
		if IsBlank(ch) || (ch == '\r' && s.LineEnd(i) == 0) {
			i++
			continue
		}
		break
	}
	return i
}

// SkipBlankLines skips blanks and whole blank lines, returning the offset of
// the next content byte or the end of input.
func (s *Scanner) SkipBlankLines(i int) int {
	for {
		j := s.SkipBlanks(i)
		w := s.LineEnd(j)
		if w == 0 {
			return j
		}
		i = j + w
	}
}

// escapeWidth returns how many bytes a caret at i-1 neutralises: the
// following character, or the whole line terminator for a continuation.
func (s *Scanner) escapeWidth(i int) int {
	if i >= len(s.src) {
		return 0
	}
	if w := s.LineEnd(i); w > 0 {
		return w
	}
	return 1
}

// IndexByte returns the first offset of c in [start, end), or -1.
func (s *Scanner) IndexByte(start, end int, c byte) int {
	for i := start; i < end; i++ {
		if s.src[i] == c {
			return i
		}
	}
	return -1
}

// Closing returns the offset of the quote that closes the one at i, looking
// only on the current line, or -1. With backslash set, a backslash escapes
// the following character.
func (s *Scanner) Closing(i int, backslash bool) int {
	quote := s.src[i]
	for j := i + 1; j < len(s.src); j++ {
		if s.LineEnd(j) > 0 {
			return -1
		}
		switch c := s.src[j]; {
		case backslash && c == '\\':
			if s.LineEnd(j+1) > 0 {
				return -1
			}
			j++
		case c == quote:
			return j
		}
	}
	return -1
}
