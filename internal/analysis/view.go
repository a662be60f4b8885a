package analysis

import "github.com/Azure/mypl/parser"

// TokenView is the serialized form of a token.
type TokenView struct {
	Type   string `json:"type" yaml:"type"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// ErrorView is the serialized form of a diagnostic.
type ErrorView struct {
	Component string `json:"component" yaml:"component"`
	Message   string `json:"message" yaml:"message"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	Rule      string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// ResultView is the serialized form of a Result.
type ResultView struct {
	ID     string      `json:"id" yaml:"id"`
	Source string      `json:"source" yaml:"source"`
	Valid  bool        `json:"valid" yaml:"valid"`
	Tokens int         `json:"tokens" yaml:"tokens"`
	Error  *ErrorView  `json:"error,omitempty" yaml:"error,omitempty"`
	Stream []TokenView `json:"stream,omitempty" yaml:"stream,omitempty"`
}

func (r *Result) View() *ResultView {
	v := &ResultView{
		ID:     r.ID.String(),
		Source: r.Source,
		Valid:  r.Valid(),
		Tokens: r.Tokens,
	}
	if r.Err != nil {
		v.Error = &ErrorView{
			Component: string(r.Err.Component),
			Message:   r.Err.Message,
			Line:      r.Err.Line,
			Column:    r.Err.Column,
			Rule:      r.Err.Rule,
		}
	}
	for _, tok := range r.Stream {
		v.Stream = append(v.Stream, NewTokenView(tok))
	}
	return v
}

func NewTokenView(tok parser.Token) TokenView {
	return TokenView{Type: tok.Type.String(), Lexeme: tok.Lexeme, Line: tok.Line, Column: tok.Column}
}
