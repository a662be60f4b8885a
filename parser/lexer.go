package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const eof rune = -1

var punctuation = map[rune]TokenType{
	'.': Dot,
	',': Comma,
	'+': Plus,
	'-': Minus,
	'*': Multiply,
	'/': Divide,
	'%': Modulo,
	'(': LParen,
	')': RParen,
}

// Lexer converts a character stream into tokens. It is single-use and not safe for
// concurrent use.
type Lexer struct {
	r *bufio.Reader

	// pos is the position of the next unread rune.
	pos position

	// One rune of lookahead
	ahead    rune
	hasAhead bool

	readErr error
	done    bool
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		r:   bufio.NewReader(r),
		pos: position{Line: 1, Column: 1},
	}
}

// NextToken returns the next token in source order.
// The token's type is EOS once the input has been consumed; pulling again after that returns io.EOF.
// Any other error is a *Error describing the first character that could not be classified.
func (l *Lexer) NextToken() (Token, error) {
	if l.done {
		return Token{}, io.EOF
	}

	for {
		start := l.pos
		ch := l.peek()

		switch {
		case ch == eof:
			if l.readErr != nil {
				return Token{}, l.readError()
			}
			l.done = true
			return Token{Type: EOS, Line: start.Line, Column: start.Column}, nil

		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.read()

		case ch == '#':
			l.skipComment()

		case unicode.IsLetter(ch):
			return l.scanWord(start), nil

		case isDigit(ch):
			return l.scanNumber(start)

		case ch == '"':
			return l.scanString(start)

		case ch == '\'':
			return l.scanChar(start)

		default:
			return l.scanOperator(start)
		}
	}
}

func (l *Lexer) skipComment() {
	for {
		ch := l.read()
		if ch == '\n' || ch == eof {
			return
		}
	}
}

// scanWord consumes an identifier-shaped run and classifies it as a keyword, boolean
// literal, or identifier. Any digit or underscore rules out a keyword since none contain one.
func (l *Lexer) scanWord(start position) Token {
	var buf strings.Builder
	for {
		ch := l.peek()
		if !unicode.IsLetter(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		buf.WriteRune(l.read())
	}
	lexeme := buf.String()
	return newToken(LookupIdent(lexeme), lexeme, start)
}

func (l *Lexer) scanNumber(start position) (Token, error) {
	var buf strings.Builder
	first := l.read()
	buf.WriteRune(first)
	if first == '0' && isDigit(l.peek()) {
		return Token{}, lexError(ErrLeadingZero, start, "")
	}
	l.digits(&buf)

	tt := IntVal
	if l.peek() == '.' {
		buf.WriteRune(l.read())
		if !isDigit(l.peek()) {
			return Token{}, lexError(ErrMalformedReal, start, "(missing digits after decimal point)")
		}
		l.digits(&buf)
		if l.peek() == '.' {
			return Token{}, lexError(ErrMalformedReal, start, "(second decimal point)")
		}
		tt = DoubleVal
	}

	if unicode.IsLetter(l.peek()) {
		return Token{}, lexError(ErrNumericSuffix, start, "")
	}
	return newToken(tt, buf.String(), start), nil
}

func (l *Lexer) digits(buf *strings.Builder) {
	for isDigit(l.peek()) {
		buf.WriteRune(l.read())
	}
}

func (l *Lexer) scanString(start position) (Token, error) {
	l.read() // opening quote

	var buf strings.Builder
	for {
		switch l.peek() {
		case eof:
			return Token{}, l.eofError(ErrUnterminatedString, start)
		case '\n':
			return Token{}, lexError(ErrNewlineInString, l.pos, "")
		case '"':
			l.read()
			return newToken(StringVal, buf.String(), start), nil
		}
		buf.WriteRune(l.read())
	}
}

func (l *Lexer) scanChar(start position) (Token, error) {
	l.read() // opening quote

	var buf strings.Builder
	n := 0
	for {
		switch l.peek() {
		case eof, '\n':
			return Token{}, l.eofError(ErrUnterminatedChar, start)
		case '\'':
			l.read()
			if n != 1 {
				return Token{}, lexError(ErrCharLength, start, fmt.Sprintf("(found '%s')", buf.String()))
			}
			return newToken(CharVal, buf.String(), start), nil
		}
		buf.WriteRune(l.read())
		n++
	}
}

func (l *Lexer) scanOperator(start position) (Token, error) {
	ch := l.read()
	if tt, ok := punctuation[ch]; ok {
		return newToken(tt, string(ch), start), nil
	}

	switch ch {
	case ':':
		if l.peek() != '=' {
			return Token{}, lexError(ErrMalformedAssign, start, "")
		}
		l.read()
		return newToken(Assign, ":=", start), nil

	case '=':
		if l.peek() == '=' {
			return Token{}, lexError(ErrDoubleEquals, start, "")
		}
		return newToken(Equal, "=", start), nil

	case '>':
		return l.withOptionalEquals(GreaterThan, GreaterThanEqual, ">", start), nil
	case '<':
		return l.withOptionalEquals(LessThan, LessThanEqual, "<", start), nil
	case '!':
		return l.withOptionalEquals(Not, NotEqual, "!", start), nil
	}

	return Token{}, lexError(ErrUnexpectedChar, start, fmt.Sprintf("'%c'", ch))
}

func (l *Lexer) withOptionalEquals(single, double TokenType, lexeme string, start position) Token {
	if l.peek() != '=' {
		return newToken(single, lexeme, start)
	}
	l.read()
	return newToken(double, lexeme+"=", start)
}

// eofError distinguishes a truncated literal from a failing input source.
func (l *Lexer) eofError(sentinel error, start position) *Error {
	if l.readErr != nil {
		return l.readError()
	}
	return lexError(sentinel, start, "")
}

// readError reports a failing input source. Both ErrRead and the source's error stay in the chain.
func (l *Lexer) readError() *Error {
	e := lexError(ErrRead, l.pos, l.readErr.Error())
	e.Err = fmt.Errorf("%w: %w", ErrRead, l.readErr)
	return e
}

func (l *Lexer) peek() rune {
	if !l.hasAhead {
		l.ahead = l.fetch()
		l.hasAhead = true
	}
	return l.ahead
}

func (l *Lexer) read() rune {
	ch := l.peek()
	l.hasAhead = false

	switch ch {
	case eof:
	case '\n':
		l.pos.Line++
		l.pos.Column = 1
	default:
		l.pos.Column++
	}
	return ch
}

func (l *Lexer) fetch() rune {
	if l.readErr != nil {
		return eof
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.readErr = err
		}
		return eof
	}
	return ch
}

func newToken(tt TokenType, lexeme string, start position) Token {
	return Token{Type: tt, Lexeme: lexeme, Line: start.Line, Column: start.Column}
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
