package parser

// Tracer observes the recursive descent. Enter is called each time a grammar rule is
// entered, with the number of rules active (including this one) and the lookahead token.
type Tracer interface {
	Enter(rule string, depth int, lookahead Token)
}

// TraceFunc adapts a function to the Tracer interface.
type TraceFunc func(rule string, depth int, lookahead Token)

func (f TraceFunc) Enter(rule string, depth int, lookahead Token) { f(rule, depth, lookahead) }

type nopTracer struct{}

func (nopTracer) Enter(string, int, Token) {}

// Option configures a Parser.
type Option func(*Parser)

// WithTracer installs a trace sink. A nil tracer disables tracing.
func WithTracer(t Tracer) Option {
	return func(p *Parser) {
		if t == nil {
			t = nopTracer{}
		}
		p.tracer = t
	}
}

// WithMaxDepth bounds the number of simultaneously active grammar rules.
// Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}
