package parser

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		Name   string
		Lines  []string
		Tokens []Token
		Error  error
	}{
		{
			Name:   "empty",
			Lines:  []string{""},
			Tokens: []Token{{Type: EOS}},
		},
		{
			Name:  "basic-vdecl",
			Lines: []string{"var x := 5"},
			Tokens: []Token{
				{Type: Var, Lexeme: "var"},
				{Type: ID, Lexeme: "x"},
				{Type: Assign, Lexeme: ":="},
				{Type: IntVal, Lexeme: "5"},
				{Type: EOS},
			},
		},
		{
			Name:  "keyword-with-digit",
			Lines: []string{"int1 end_ while2x"},
			Tokens: []Token{
				{Type: ID, Lexeme: "int1"},
				{Type: ID, Lexeme: "end_"},
				{Type: ID, Lexeme: "while2x"},
				{Type: EOS},
			},
		},
		{
			Name:  "keywords-are-case-sensitive",
			Lines: []string{"Var IF"},
			Tokens: []Token{
				{Type: ID, Lexeme: "Var"},
				{Type: ID, Lexeme: "IF"},
				{Type: EOS},
			},
		},
		{
			Name:  "booleans",
			Lines: []string{"true false truth"},
			Tokens: []Token{
				{Type: BoolVal, Lexeme: "true"},
				{Type: BoolVal, Lexeme: "false"},
				{Type: ID, Lexeme: "truth"},
				{Type: EOS},
			},
		},
		{
			Name:  "numbers",
			Lines: []string{"0 42 3.14 0.5 10.01"},
			Tokens: []Token{
				{Type: IntVal, Lexeme: "0"},
				{Type: IntVal, Lexeme: "42"},
				{Type: DoubleVal, Lexeme: "3.14"},
				{Type: DoubleVal, Lexeme: "0.5"},
				{Type: DoubleVal, Lexeme: "10.01"},
				{Type: EOS},
			},
		},
		{
			Name:  "number-then-operator",
			Lines: []string{"1+2"},
			Tokens: []Token{
				{Type: IntVal, Lexeme: "1"},
				{Type: Plus, Lexeme: "+"},
				{Type: IntVal, Lexeme: "2"},
				{Type: EOS},
			},
		},
		{
			Name:  "string",
			Lines: []string{`"hello # world"`},
			Tokens: []Token{
				{Type: StringVal, Lexeme: "hello # world"},
				{Type: EOS},
			},
		},
		{
			Name:  "empty-string",
			Lines: []string{`""`},
			Tokens: []Token{
				{Type: StringVal, Lexeme: ""},
				{Type: EOS},
			},
		},
		{
			Name:  "char",
			Lines: []string{`'a' ' '`},
			Tokens: []Token{
				{Type: CharVal, Lexeme: "a"},
				{Type: CharVal, Lexeme: " "},
				{Type: EOS},
			},
		},
		{
			Name: "comments",
			Lines: []string{
				"# leading comment",
				"x # trailing",
				"# at eof",
			},
			Tokens: []Token{
				{Type: ID, Lexeme: "x"},
				{Type: EOS},
			},
		},
		{
			Name:  "single-char-operators",
			Lines: []string{". , + - * / % ( ) ="},
			Tokens: []Token{
				{Type: Dot, Lexeme: "."},
				{Type: Comma, Lexeme: ","},
				{Type: Plus, Lexeme: "+"},
				{Type: Minus, Lexeme: "-"},
				{Type: Multiply, Lexeme: "*"},
				{Type: Divide, Lexeme: "/"},
				{Type: Modulo, Lexeme: "%"},
				{Type: LParen, Lexeme: "("},
				{Type: RParen, Lexeme: ")"},
				{Type: Equal, Lexeme: "="},
				{Type: EOS},
			},
		},
		{
			Name:  "comparison-operators",
			Lines: []string{"> >= < <= ! != :="},
			Tokens: []Token{
				{Type: GreaterThan, Lexeme: ">"},
				{Type: GreaterThanEqual, Lexeme: ">="},
				{Type: LessThan, Lexeme: "<"},
				{Type: LessThanEqual, Lexeme: "<="},
				{Type: Not, Lexeme: "!"},
				{Type: NotEqual, Lexeme: "!="},
				{Type: Assign, Lexeme: ":="},
				{Type: EOS},
			},
		},
		{
			Name:  "operators-without-spaces",
			Lines: []string{"a<=b!=c"},
			Tokens: []Token{
				{Type: ID, Lexeme: "a"},
				{Type: LessThanEqual, Lexeme: "<="},
				{Type: ID, Lexeme: "b"},
				{Type: NotEqual, Lexeme: "!="},
				{Type: ID, Lexeme: "c"},
				{Type: EOS},
			},
		},
		{
			Name:  "field-access",
			Lines: []string{"p.next.val"},
			Tokens: []Token{
				{Type: ID, Lexeme: "p"},
				{Type: Dot, Lexeme: "."},
				{Type: ID, Lexeme: "next"},
				{Type: Dot, Lexeme: "."},
				{Type: ID, Lexeme: "val"},
				{Type: EOS},
			},
		},
		{
			Name:  "crlf",
			Lines: []string{"a\r", "b"},
			Tokens: []Token{
				{Type: ID, Lexeme: "a"},
				{Type: ID, Lexeme: "b"},
				{Type: EOS},
			},
		},
		{
			Name:  "leading-zero",
			Lines: []string{"007"},
			Error: ErrLeadingZero,
		},
		{
			Name:  "double-decimal-point",
			Lines: []string{"3.14.5"},
			Error: ErrMalformedReal,
		},
		{
			Name:  "missing-fraction",
			Lines: []string{"3."},
			Error: ErrMalformedReal,
		},
		{
			Name:  "alpha-suffix",
			Lines: []string{"3a"},
			Error: ErrNumericSuffix,
		},
		{
			Name:  "alpha-suffix-on-double",
			Lines: []string{"3.5e"},
			Error: ErrNumericSuffix,
		},
		{
			Name:  "newline-in-string",
			Lines: []string{`"ab`, `cd"`},
			Error: ErrNewlineInString,
		},
		{
			Name:  "unterminated-string",
			Lines: []string{`"abc`},
			Error: ErrUnterminatedString,
		},
		{
			Name:  "unterminated-char",
			Lines: []string{`'a`},
			Error: ErrUnterminatedChar,
		},
		{
			Name:  "empty-char",
			Lines: []string{`''`},
			Error: ErrCharLength,
		},
		{
			Name:  "multi-char",
			Lines: []string{`'ab'`},
			Error: ErrCharLength,
		},
		{
			Name:  "colon-without-equals",
			Lines: []string{"x : 1"},
			Error: ErrMalformedAssign,
		},
		{
			Name:  "double-equals",
			Lines: []string{"x == 1"},
			Error: ErrDoubleEquals,
		},
		{
			Name:  "unexpected-char",
			Lines: []string{"x @ y"},
			Error: ErrUnexpectedChar,
		},
		{
			Name:  "leading-underscore",
			Lines: []string{"_x"},
			Error: ErrUnexpectedChar,
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			lex := NewLexer(strings.NewReader(strings.Join(tc.Lines, "\n")))

			if tc.Error != nil {
				for {
					tok, err := lex.NextToken()
					if err == nil {
						require.NotEqual(t, EOS, tok.Type, "reached EOS before receiving any errors")
						continue
					}
					assert.ErrorIs(t, err, tc.Error)
					pe := AsError(err)
					require.NotNil(t, pe)
					assert.Equal(t, ComponentLexer, pe.Component)
					return
				}
			}

			actuals := make([]Token, len(tc.Tokens))
			for i, expected := range tc.Tokens {
				actual, err := lex.NextToken()
				require.NoError(t, err)

				// Asserting on position is optional
				if expected.Line == 0 {
					actual.Line, actual.Column = 0, 0
				}
				actuals[i] = actual
			}
			assert.Equal(t, tc.Tokens, actuals)
		})
	}
}

func TestLexerKeywords(t *testing.T) {
	for _, kw := range Keywords() {
		t.Run(kw, func(t *testing.T) {
			lex := NewLexer(strings.NewReader(kw))

			tok, err := lex.NextToken()
			require.NoError(t, err)
			assert.Equal(t, keywords[kw], tok.Type)
			assert.Equal(t, kw, tok.Lexeme)
			assert.NotEqual(t, ID, tok.Type)

			tok, err = lex.NextToken()
			require.NoError(t, err)
			assert.Equal(t, EOS, tok.Type)
		})
	}
}

func TestLexerPosition(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Tokens []Token
	}{
		{
			Name:  "indented-second-line",
			Input: "var\n  x := 1",
			Tokens: []Token{
				{Type: Var, Lexeme: "var", Line: 1, Column: 1},
				{Type: ID, Lexeme: "x", Line: 2, Column: 3},
				{Type: Assign, Lexeme: ":=", Line: 2, Column: 5},
				{Type: IntVal, Lexeme: "1", Line: 2, Column: 8},
				{Type: EOS, Line: 2, Column: 9},
			},
		},
		{
			Name:  "tabs-and-comments",
			Input: "# header\n\tfoo(\"s\", 'c')",
			Tokens: []Token{
				{Type: ID, Lexeme: "foo", Line: 2, Column: 2},
				{Type: LParen, Lexeme: "(", Line: 2, Column: 5},
				{Type: StringVal, Lexeme: "s", Line: 2, Column: 6},
				{Type: Comma, Lexeme: ",", Line: 2, Column: 9},
				{Type: CharVal, Lexeme: "c", Line: 2, Column: 11},
				{Type: RParen, Lexeme: ")", Line: 2, Column: 14},
				{Type: EOS, Line: 2, Column: 15},
			},
		},
		{
			Name:  "two-char-operators",
			Input: "a >= 1.5",
			Tokens: []Token{
				{Type: ID, Lexeme: "a", Line: 1, Column: 1},
				{Type: GreaterThanEqual, Lexeme: ">=", Line: 1, Column: 3},
				{Type: DoubleVal, Lexeme: "1.5", Line: 1, Column: 6},
				{Type: EOS, Line: 1, Column: 9},
			},
		},
		{
			Name:  "unicode-identifiers",
			Input: "héllo wörld",
			Tokens: []Token{
				{Type: ID, Lexeme: "héllo", Line: 1, Column: 1},
				{Type: ID, Lexeme: "wörld", Line: 1, Column: 7},
				{Type: EOS, Line: 1, Column: 12},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			toks, err := drain(NewLexer(strings.NewReader(tc.Input)))
			require.NoError(t, err)
			assert.Equal(t, tc.Tokens, toks)
		})
	}
}

func TestLexerErrorPosition(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Line   int
		Column int
	}{
		{Name: "leading-zero", Input: "x := 007", Line: 1, Column: 6},
		{Name: "newline-in-string", Input: "\n  \"ab\ncd\"", Line: 2, Column: 6},
		{Name: "unterminated-string", Input: "x\n \"abc", Line: 2, Column: 2},
		{Name: "malformed-assign", Input: "set x :5", Line: 1, Column: 7},
		{Name: "double-equals", Input: "a == b", Line: 1, Column: 3},
		{Name: "unexpected-char", Input: "a\n\n   $", Line: 3, Column: 4},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := drain(NewLexer(strings.NewReader(tc.Input)))
			pe := AsError(err)
			require.NotNil(t, pe, "expected a *Error, got %v", err)
			assert.Equal(t, ComponentLexer, pe.Component)
			assert.Equal(t, tc.Line, pe.Line)
			assert.Equal(t, tc.Column, pe.Column)
		})
	}
}

func TestLexerIdempotent(t *testing.T) {
	src := "type Node var int val := 0 var Node next := nil end\n" +
		"fun nil walk(Node n) while n != nil do set n := n.next end end\n" +
		"var s := \"text\" # comment\nvar c := 'z'\n"

	first, err := drain(NewLexer(strings.NewReader(src)))
	require.NoError(t, err)
	second, err := drain(NewLexer(strings.NewReader(src)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLexerSingleEOS(t *testing.T) {
	lex := NewLexer(strings.NewReader("x"))

	tok, err := lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, ID, tok.Type)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, EOS, tok.Type)

	_, err = lex.NextToken()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLexerReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(strings.NewReader("var x"), iotest.ErrReader(boom))
	lex := NewLexer(r)

	tok, err := lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, Var, tok.Type)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, ID, tok.Type)

	_, err = lex.NextToken()
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLexerReadErrorInString(t *testing.T) {
	r := io.MultiReader(strings.NewReader(`"abc`), iotest.ErrReader(errors.New("boom")))
	_, err := NewLexer(r).NextToken()
	assert.ErrorIs(t, err, ErrRead)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "ID 'x' 2:3", Token{Type: ID, Lexeme: "x", Line: 2, Column: 3}.String())
	assert.Equal(t, "EOS 4:1", Token{Type: EOS, Line: 4, Column: 1}.String())
	assert.Equal(t, "GREATER_THAN_EQUAL", GreaterThanEqual.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())
}

func drain(lex *Lexer) ([]Token, error) {
	var toks []Token
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == EOS {
			return toks, nil
		}
	}
}
