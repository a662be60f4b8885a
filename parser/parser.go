package parser

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/v2/stacks/arraystack"
)

var ErrParserUsed = errors.New("parser has already been used")

// TokenSource supplies tokens to the Parser one at a time. *Lexer implements it.
type TokenSource interface {
	NextToken() (Token, error)
}

// Parser is an LL(1) recognizer for MyPL. It holds exactly one token of lookahead and
// never pulls from its source again once the end-of-stream token has been seen.
type Parser struct {
	src TokenSource
	cur Token

	rules    *arraystack.Stack[string]
	tracer   Tracer
	maxDepth int
	used     bool
}

func NewParser(src TokenSource, opts ...Option) *Parser {
	p := &Parser{
		src:    src,
		rules:  arraystack.New[string](),
		tracer: nopTracer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse consumes the entire token stream and returns nil if it forms a valid program.
// The first lexical or syntax error aborts the analysis and is returned as a *Error.
func (p *Parser) Parse() error {
	if p.used {
		return ErrParserUsed
	}
	p.used = true

	if err := p.pull(); err != nil {
		return err
	}
	if err := p.enter("program"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.stmts(); err != nil {
		return err
	}
	if p.cur.Type != EOS {
		return p.expected("end of stream")
	}
	return nil
}

// <stmts> ::= <stmt> <stmts> | ε
func (p *Parser) stmts() error {
	if err := p.enter("stmts"); err != nil {
		return err
	}
	defer p.leave()

	for p.cur.Type != EOS {
		if err := p.stmt(); err != nil {
			return err
		}
	}
	return nil
}

// <stmt> ::= <tdecl> | <fdecl> | <bstmt>
func (p *Parser) stmt() error {
	if err := p.enter("stmt"); err != nil {
		return err
	}
	defer p.leave()

	switch {
	case p.cur.Type == Type:
		return p.tdecl()
	case p.cur.Type == Fun:
		return p.fdecl()
	case IsBlockStatementStarter(p.cur.Type):
		return p.bstmt()
	default:
		return p.expected("statement")
	}
}

// <tdecl> ::= TYPE ID <vdecl>+ END
func (p *Parser) tdecl() error {
	if err := p.enter("tdecl"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(Type, "'type'"); err != nil {
		return err
	}
	if err := p.eat(ID, "type name"); err != nil {
		return err
	}
	if p.cur.Type != Var {
		return p.expected("variable declaration")
	}
	for p.cur.Type == Var {
		if err := p.vdecl(); err != nil {
			return err
		}
	}
	return p.eat(End, "'end'")
}

// <fdecl> ::= FUN ( <dtype> | NIL ) ID LPAREN <params> RPAREN <bstmt> END
func (p *Parser) fdecl() error {
	if err := p.enter("fdecl"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(Fun, "'fun'"); err != nil {
		return err
	}
	switch {
	case p.cur.Type == Nil:
		if err := p.advance(); err != nil {
			return err
		}
	case IsTypeStarter(p.cur.Type):
		if err := p.dtype(); err != nil {
			return err
		}
	default:
		return p.expected("return type or 'nil'")
	}
	if err := p.eat(ID, "function name"); err != nil {
		return err
	}
	if err := p.eat(LParen, "'('"); err != nil {
		return err
	}
	if err := p.params(); err != nil {
		return err
	}
	if err := p.eat(RParen, "')'"); err != nil {
		return err
	}
	if err := p.bstmt(); err != nil {
		return err
	}
	return p.eat(End, "'end'")
}

// <params> ::= <dtype> ID ( COMMA <dtype> ID )* | ε
func (p *Parser) params() error {
	if err := p.enter("params"); err != nil {
		return err
	}
	defer p.leave()

	if !IsTypeStarter(p.cur.Type) {
		return nil
	}
	for {
		if err := p.dtype(); err != nil {
			return err
		}
		if err := p.eat(ID, "parameter name"); err != nil {
			return err
		}
		if p.cur.Type != Comma {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// <dtype> ::= INT_TYPE | DOUBLE_TYPE | BOOL_TYPE | CHAR_TYPE | STRING_TYPE | ID
func (p *Parser) dtype() error {
	if err := p.enter("dtype"); err != nil {
		return err
	}
	defer p.leave()

	if !IsTypeStarter(p.cur.Type) {
		return p.expected("type")
	}
	return p.advance()
}

// <bstmts> ::= <bstmt> <bstmts> | ε
func (p *Parser) bstmts() error {
	if err := p.enter("bstmts"); err != nil {
		return err
	}
	defer p.leave()

	for IsBlockStatementStarter(p.cur.Type) {
		if err := p.bstmt(); err != nil {
			return err
		}
	}
	return nil
}

// <bstmt> ::= <vdecl> | <assign> | <cond> | <while> | <for> | <expr> | <exit>
func (p *Parser) bstmt() error {
	if err := p.enter("bstmt"); err != nil {
		return err
	}
	defer p.leave()

	switch p.cur.Type {
	case Var:
		return p.vdecl()
	case Set:
		return p.assign()
	case If:
		return p.cond()
	case While:
		return p.whileStmt()
	case For:
		return p.forStmt()
	case Return:
		return p.exitStmt()
	}
	if !IsExpressionStarter(p.cur.Type) {
		return p.expected("statement")
	}

	start := p.cur
	if err := p.expr(); err != nil {
		return err
	}
	if p.cur.Type == Assign {
		return p.syntaxError(start, "assignment requires 'var' or 'set'")
	}
	return nil
}

// <vdecl> ::= VAR ( <dtype> | ε ) ID ASSIGN <expr>
//
// An ID directly after VAR is either the variable name or a user-defined type; a second
// ID settles it.
func (p *Parser) vdecl() error {
	if err := p.enter("vdecl"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(Var, "'var'"); err != nil {
		return err
	}
	switch {
	case primitiveTypes.Contains(p.cur.Type):
		if err := p.dtype(); err != nil {
			return err
		}
		if err := p.eat(ID, "variable name"); err != nil {
			return err
		}
	case p.cur.Type == ID:
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Type == ID {
			if err := p.advance(); err != nil {
				return err
			}
		}
	default:
		return p.expected("type or variable name")
	}
	if err := p.eat(Assign, "':='"); err != nil {
		return err
	}
	return p.expr()
}

// <assign> ::= SET <lvalue> ASSIGN <expr>
func (p *Parser) assign() error {
	if err := p.enter("assign"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(Set, "'set'"); err != nil {
		return err
	}
	if err := p.lvalue(); err != nil {
		return err
	}
	if err := p.eat(Assign, "':='"); err != nil {
		return err
	}
	return p.expr()
}

// <lvalue> ::= ID ( DOT ID )*
func (p *Parser) lvalue() error {
	if err := p.enter("lvalue"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(ID, "variable name"); err != nil {
		return err
	}
	return p.path()
}

// <cond> ::= IF <expr> THEN <bstmt> <condt> END
func (p *Parser) cond() error {
	if err := p.enter("cond"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(If, "'if'"); err != nil {
		return err
	}
	if err := p.expr(); err != nil {
		return err
	}
	if err := p.eat(Then, "'then'"); err != nil {
		return err
	}
	if err := p.bstmt(); err != nil {
		return err
	}
	if err := p.condt(); err != nil {
		return err
	}
	return p.eat(End, "'end'")
}

// <condt> ::= ELIF <expr> THEN <bstmts> <condt> | ELSE <bstmts> | ε
func (p *Parser) condt() error {
	if err := p.enter("condt"); err != nil {
		return err
	}
	defer p.leave()

	for p.cur.Type == Elif {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		if err := p.eat(Then, "'then'"); err != nil {
			return err
		}
		if err := p.bstmts(); err != nil {
			return err
		}
	}
	if p.cur.Type != Else {
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	return p.bstmts()
}

// <while> ::= WHILE <expr> DO <bstmts> END
func (p *Parser) whileStmt() error {
	if err := p.enter("while"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(While, "'while'"); err != nil {
		return err
	}
	if err := p.expr(); err != nil {
		return err
	}
	if err := p.eat(Do, "'do'"); err != nil {
		return err
	}
	if err := p.bstmts(); err != nil {
		return err
	}
	return p.eat(End, "'end'")
}

// <for> ::= FOR ID ASSIGN <expr> TO <expr> DO <bstmts> END
func (p *Parser) forStmt() error {
	if err := p.enter("for"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(For, "'for'"); err != nil {
		return err
	}
	if err := p.eat(ID, "loop variable"); err != nil {
		return err
	}
	if err := p.eat(Assign, "':='"); err != nil {
		return err
	}
	if err := p.expr(); err != nil {
		return err
	}
	if err := p.eat(To, "'to'"); err != nil {
		return err
	}
	if err := p.expr(); err != nil {
		return err
	}
	if err := p.eat(Do, "'do'"); err != nil {
		return err
	}
	if err := p.bstmts(); err != nil {
		return err
	}
	return p.eat(End, "'end'")
}

// <exit> ::= RETURN ( <expr> | ε )
func (p *Parser) exitStmt() error {
	if err := p.enter("exit"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(Return, "'return'"); err != nil {
		return err
	}
	if !IsExpressionStarter(p.cur.Type) {
		return nil
	}
	return p.expr()
}

// <expr> ::= ( <rvalue> | NOT <expr> | LPAREN <expr> RPAREN ) ( <operator> <expr> | ε )
//
// The operator tail is right-recursive in the grammar; iterating over it accepts exactly
// the same token sequences without growing the stack for long operator chains.
func (p *Parser) expr() error {
	if err := p.enter("expr"); err != nil {
		return err
	}
	defer p.leave()

	for {
		if err := p.operand(); err != nil {
			return err
		}
		if !IsBinaryOperator(p.cur.Type) {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *Parser) operand() error {
	switch {
	case p.cur.Type == LParen:
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expr(); err != nil {
			return err
		}
		return p.eat(RParen, "')'")

	case p.cur.Type == Not:
		if err := p.advance(); err != nil {
			return err
		}
		return p.expr()

	case IsExpressionStarter(p.cur.Type):
		return p.rvalue()

	default:
		return p.expected("expression")
	}
}

// <rvalue> ::= <pval> | NIL | NEW ID | NEG <expr> | <idrval>
func (p *Parser) rvalue() error {
	if err := p.enter("rvalue"); err != nil {
		return err
	}
	defer p.leave()

	switch {
	case IsValueLiteral(p.cur.Type), p.cur.Type == Nil:
		return p.advance()

	case p.cur.Type == New:
		if err := p.advance(); err != nil {
			return err
		}
		return p.eat(ID, "type name")

	case p.cur.Type == Neg:
		if err := p.advance(); err != nil {
			return err
		}
		return p.expr()

	case p.cur.Type == ID:
		return p.idrval()

	default:
		return p.expected("value")
	}
}

// <idrval> ::= ID ( DOT ID )* | ID LPAREN <exprlist> RPAREN
func (p *Parser) idrval() error {
	if err := p.enter("idrval"); err != nil {
		return err
	}
	defer p.leave()

	if err := p.eat(ID, "identifier"); err != nil {
		return err
	}
	if p.cur.Type != LParen {
		return p.path()
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.exprlist(); err != nil {
		return err
	}
	return p.eat(RParen, "')'")
}

// <exprlist> ::= <expr> ( COMMA <expr> )* | ε
func (p *Parser) exprlist() error {
	if err := p.enter("exprlist"); err != nil {
		return err
	}
	defer p.leave()

	if !IsExpressionStarter(p.cur.Type) {
		return nil
	}
	for {
		if err := p.expr(); err != nil {
			return err
		}
		if p.cur.Type != Comma {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// path consumes ( DOT ID )*.
func (p *Parser) path() error {
	for p.cur.Type == Dot {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.eat(ID, "field name"); err != nil {
			return err
		}
	}
	return nil
}

// eat consumes the lookahead if it has the given type.
func (p *Parser) eat(tt TokenType, what string) error {
	if p.cur.Type != tt {
		return p.expected(what)
	}
	return p.advance()
}

// advance replaces the lookahead with the next token. The end-of-stream token is never
// consumed since nothing follows it.
func (p *Parser) advance() error {
	if p.cur.Type == EOS {
		return nil
	}
	return p.pull()
}

func (p *Parser) pull() error {
	tok, err := p.src.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) enter(rule string) error {
	if p.maxDepth > 0 && p.rules.Size() >= p.maxDepth {
		return p.wrapSyntaxError(ErrNestingDepth, p.cur, fmt.Sprintf("%s (%d) entering <%s>", ErrNestingDepth, p.maxDepth, rule))
	}
	p.rules.Push(rule)
	p.tracer.Enter(rule, p.rules.Size(), p.cur)
	return nil
}

func (p *Parser) leave() { p.rules.Pop() }

func (p *Parser) expected(what string) *Error {
	return p.syntaxError(p.cur, fmt.Sprintf("expecting %s, found %s", what, describe(p.cur)))
}

func (p *Parser) syntaxError(at Token, msg string) *Error {
	return p.wrapSyntaxError(ErrSyntax, at, msg)
}

func (p *Parser) wrapSyntaxError(sentinel error, at Token, msg string) *Error {
	rule, _ := p.rules.Peek()
	return &Error{
		Component: ComponentParser,
		Message:   msg,
		Line:      at.Line,
		Column:    at.Column,
		Rule:      rule,
		Err:       sentinel,
	}
}

func describe(tok Token) string {
	if tok.Type == EOS {
		return "end of stream"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}
