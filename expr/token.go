package expr

import "strconv"

// tokKind enumerates the lexical tokens of the expression vocabulary.
type tokKind uint8

const (
	tokEOF tokKind = iota
	tokNumber
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow // **
	tokAnd // &
	tokOr  // |
	tokNot // ~
	tokLT
	tokLE
	tokGT
	tokGE
	tokEQ
	tokNE
)

// opText returns the source spelling of an operator token, for error
// messages.
func opText(k tokKind) string {
	switch k {
	case tokPlus:
		return "+"
	case tokMinus:
		return "-"
	case tokStar:
		return "*"
	case tokSlash:
		return "/"
	case tokPow:
		return "**"
	case tokAnd:
		return "&"
	case tokOr:
		return "|"
	case tokNot:
		return "~"
	case tokLT:
		return "<"
	case tokLE:
		return "<="
	case tokGT:
		return ">"
	case tokGE:
		return ">="
	case tokEQ:
		return "=="
	case tokNE:
		return "!="
	default:
		return "?"
	}
}

// token is one lexical unit. Numbers carry their parsed value; integer
// literals stay integers so the evaluator can keep its int/float
// distinction.
type token struct {
	kind  tokKind
	text  string
	pos   int
	f     float64 // set for float literals
	i     int64   // set for integer literals
	isInt bool
}

// lexer produces tokens from an expression string.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.number()
	case isIdentStart(c):
		return l.ident(), nil
	}

	l.pos++
	tk := func(k tokKind) (token, error) {
		return token{kind: k, text: l.src[start:l.pos], pos: start}, nil
	}
	switch c {
	case '(':
		return tk(tokLParen)
	case ')':
		return tk(tokRParen)
	case ',':
		return tk(tokComma)
	case '+':
		return tk(tokPlus)
	case '-':
		return tk(tokMinus)
	case '/':
		return tk(tokSlash)
	case '&':
		return tk(tokAnd)
	case '|':
		return tk(tokOr)
	case '~':
		return tk(tokNot)
	case '*':
		if l.pos < len(l.src) && l.src[l.pos] == '*' {
			l.pos++
			return tk(tokPow)
		}
		return tk(tokStar)
	case '<':
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return tk(tokLE)
		}
		return tk(tokLT)
	case '>':
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return tk(tokGE)
		}
		return tk(tokGT)
	case '=':
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return tk(tokEQ)
		}
		return token{}, syntaxErrf("unexpected %q at offset %d", "=", start)
	case '!':
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return tk(tokNE)
		}
		return token{}, syntaxErrf("unexpected %q at offset %d", "!", start)
	}
	return token{}, syntaxErrf("unexpected character %q at offset %d", string(c), start)
}

// number scans an integer or float literal. Hex literals and plain
// digit runs stay integers; a decimal point or exponent makes a float.
func (l *lexer) number() (token, error) {
	start := l.pos

	// Hex integer.
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		l.pos += 2
		digits := l.pos
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if l.pos == digits {
			return token{}, syntaxErrf("malformed number %q at offset %d", text, start)
		}
		u, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return token{}, syntaxErrf("malformed number %q at offset %d", text, start)
		}
		return token{kind: tokNumber, text: text, pos: start, i: int64(u), isInt: true}, nil
	}

	isFloat := false
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			isFloat = true
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			// Not an exponent after all (e.g. "2e" followed by an
			// identifier character); leave it for the next token.
			l.pos = mark
		}
	}

	text := l.src[start:l.pos]
	if !isFloat {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return token{kind: tokNumber, text: text, pos: start, i: i, isInt: true}, nil
		}
		// Out of int64 range: fall through to float like an oversized
		// literal would.
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, syntaxErrf("malformed number %q at offset %d", text, start)
	}
	return token{kind: tokNumber, text: text, pos: start, f: f}, nil
}

// ident scans an identifier, allowing one qualifying dot so that
// "math.sqrt" and "math.pi" come out as a single token.
func (l *lexer) ident() token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isIdentStart(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
	}
	return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
