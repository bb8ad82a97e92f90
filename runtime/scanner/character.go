package scanner

// ASCII character lookup tables for fast classification.
// Bytes >= 128 (UTF-8 continuation or lead bytes) are always literal text.
var (
	isBlank     [128]bool // Space, tab, form feed, vertical tab
	isLetter    [128]bool // a-z, A-Z
	isDigit     [128]bool // 0-9
	isWordBreak [128]bool // Characters that end a bare word outside quotes: & | >
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isBlank[i] = ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isWordBreak[i] = ch == '&' || ch == '|' || ch == '>'
	}
}

// IsBlank reports whether ch is an intra-line blank.
func IsBlank(ch byte) bool {
	return ch < 128 && isBlank[ch]
}

// IsLetter reports whether ch is an ASCII letter.
func IsLetter(ch byte) bool {
	return ch < 128 && isLetter[ch]
}

// IsDigit reports whether ch is an ASCII digit.
func IsDigit(ch byte) bool {
	return ch < 128 && isDigit[ch]
}
