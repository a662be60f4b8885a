package parser

import "fmt"

// Token is a single classified lexeme. Line and Column point at its first character.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Type == EOS {
		return fmt.Sprintf("%s %d:%d", t.Type, t.Line, t.Column)
	}
	return fmt.Sprintf("%s '%s' %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

type position struct {
	Line   int
	Column int
}

type TokenType int

const (
	EOS TokenType = iota

	// Primitive values
	IntVal
	DoubleVal
	BoolVal
	StringVal
	CharVal

	ID

	// Reserved words
	IntType
	BoolType
	DoubleType
	CharType
	StringType
	Nil
	Type
	And
	Or
	Not
	Neg
	While
	For
	To
	Do
	If
	Then
	Elif
	Else
	End
	Fun
	Var
	Set
	Return
	New

	// Operators and punctuation
	Assign
	Dot
	Comma
	Plus
	Minus
	Multiply
	Divide
	Modulo
	Equal
	GreaterThan
	GreaterThanEqual
	LessThan
	LessThanEqual
	NotEqual
	LParen
	RParen
)

var tokenNames = map[TokenType]string{
	EOS:              "EOS",
	IntVal:           "INT_VAL",
	DoubleVal:        "DOUBLE_VAL",
	BoolVal:          "BOOL_VAL",
	StringVal:        "STRING_VAL",
	CharVal:          "CHAR_VAL",
	ID:               "ID",
	IntType:          "INT_TYPE",
	BoolType:         "BOOL_TYPE",
	DoubleType:       "DOUBLE_TYPE",
	CharType:         "CHAR_TYPE",
	StringType:       "STRING_TYPE",
	Nil:              "NIL",
	Type:             "TYPE",
	And:              "AND",
	Or:               "OR",
	Not:              "NOT",
	Neg:              "NEG",
	While:            "WHILE",
	For:              "FOR",
	To:               "TO",
	Do:               "DO",
	If:               "IF",
	Then:             "THEN",
	Elif:             "ELIF",
	Else:             "ELSE",
	End:              "END",
	Fun:              "FUN",
	Var:              "VAR",
	Set:              "SET",
	Return:           "RETURN",
	New:              "NEW",
	Assign:           "ASSIGN",
	Dot:              "DOT",
	Comma:            "COMMA",
	Plus:             "PLUS",
	Minus:            "MINUS",
	Multiply:         "MULTIPLY",
	Divide:           "DIVIDE",
	Modulo:           "MODULO",
	Equal:            "EQUAL",
	GreaterThan:      "GREATER_THAN",
	GreaterThanEqual: "GREATER_THAN_EQUAL",
	LessThan:         "LESS_THAN",
	LessThanEqual:    "LESS_THAN_EQUAL",
	NotEqual:         "NOT_EQUAL",
	LParen:           "LPAREN",
	RParen:           "RPAREN",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps every reserved spelling to its category. Matching is case-sensitive.
var keywords = map[string]TokenType{
	"int":    IntType,
	"bool":   BoolType,
	"double": DoubleType,
	"char":   CharType,
	"string": StringType,
	"nil":    Nil,
	"type":   Type,
	"and":    And,
	"or":     Or,
	"not":    Not,
	"neg":    Neg,
	"while":  While,
	"for":    For,
	"to":     To,
	"do":     Do,
	"if":     If,
	"then":   Then,
	"elif":   Elif,
	"else":   Else,
	"end":    End,
	"fun":    Fun,
	"var":    Var,
	"set":    Set,
	"return": Return,
	"new":    New,
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for kw := range keywords {
		out = append(out, kw)
	}
	return out
}

// LookupIdent classifies a finished identifier-shaped lexeme.
func LookupIdent(lexeme string) TokenType {
	if tt, ok := keywords[lexeme]; ok {
		return tt
	}
	if lexeme == "true" || lexeme == "false" {
		return BoolVal
	}
	return ID
}
