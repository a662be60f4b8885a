package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/Azure/mypl/internal/logging"
	"github.com/Azure/mypl/parser"
)

const (
	ResultValid        = "valid"
	ResultLexicalError = "lexical_error"
	ResultSyntaxError  = "syntax_error"
)

// Analyzer runs the lexer and parser over named sources. It is safe for concurrent use;
// every call builds its own Lexer and Parser.
type Analyzer struct {
	logger   logr.Logger
	maxDepth int
	trace    bool
	events   *logging.EventLogger
}

type Options struct {
	MaxDepth int
	Trace    bool
}

func New(logger logr.Logger, opts Options) *Analyzer {
	return &Analyzer{
		logger:   logger,
		maxDepth: opts.MaxDepth,
		trace:    opts.Trace,
		events:   logging.NewEventLogger(),
	}
}

// Result describes one analysis run.
type Result struct {
	ID       uuid.UUID
	Source   string
	Tokens   int
	Duration time.Duration

	// Err is the first lexical or syntax error, nil when the source is valid.
	Err *parser.Error

	// Stream holds the tokens produced by Tokens, including the final EOS.
	Stream []parser.Token
}

func (r *Result) Valid() bool { return r.Err == nil }

func (r *Result) Outcome() string {
	switch {
	case r.Err == nil:
		return ResultValid
	case r.Err.Component == parser.ComponentLexer:
		return ResultLexicalError
	default:
		return ResultSyntaxError
	}
}

// Check lexes and parses the source. Diagnostics are reported through Result.Err;
// the returned error is reserved for failures unrelated to the program text, such as
// context cancellation or a failing reader.
func (a *Analyzer) Check(ctx context.Context, name string, r io.Reader) (*Result, error) {
	res, ctx := a.begin(ctx, name)
	start := time.Now()

	src := &countingSource{ctx: ctx, src: parser.NewLexer(r)}
	opts := []parser.Option{parser.WithMaxDepth(a.maxDepth)}
	if a.trace {
		opts = append(opts, parser.WithTracer(logging.NewTracer(logr.FromContextOrDiscard(ctx))))
	}
	err := parser.NewParser(src, opts...).Parse()
	res.Tokens = src.n
	res.Duration = time.Since(start)

	if err := a.finish(ctx, res, err, "source checked"); err != nil {
		return nil, err
	}
	return res, nil
}

// Tokens lexes the whole source and returns every token up to and including EOS.
func (a *Analyzer) Tokens(ctx context.Context, name string, r io.Reader) (*Result, error) {
	res, ctx := a.begin(ctx, name)
	start := time.Now()

	src := &countingSource{ctx: ctx, src: parser.NewLexer(r)}
	var err error
	for {
		var tok parser.Token
		tok, err = src.NextToken()
		if err != nil {
			break
		}
		res.Stream = append(res.Stream, tok)
		if tok.Type == parser.EOS {
			break
		}
	}
	res.Tokens = src.n
	res.Duration = time.Since(start)

	if err := a.finish(ctx, res, err, "source tokenized"); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Analyzer) begin(ctx context.Context, name string) (*Result, context.Context) {
	res := &Result{ID: uuid.New(), Source: name}
	logger := a.logger.WithValues("runID", res.ID.String(), "source", name)
	logger.V(1).Info("starting analysis")
	return res, logr.NewContext(ctx, logger)
}

// finish classifies err into the result and records metrics and logs.
func (a *Analyzer) finish(ctx context.Context, res *Result, err error, msg string) error {
	tokensTotal.Add(float64(res.Tokens))
	if err != nil {
		res.Err = parser.AsError(err)
		if res.Err == nil || errors.Is(err, parser.ErrRead) {
			res.Err = nil
			logr.FromContextOrDiscard(ctx).Error(err, "analysis aborted")
			return fmt.Errorf("analyzing %s: %w", res.Source, err)
		}
	}

	analysesTotal.WithLabelValues(res.Outcome()).Inc()
	analysisDuration.Observe(res.Duration.Seconds())

	fields := []any{"result", res.Outcome(), "tokens", res.Tokens, "latency", res.Duration.Milliseconds()}
	if res.Err != nil {
		fields = logging.AddFields(fields,
			"component", string(res.Err.Component),
			"line", res.Err.Line,
			"column", res.Err.Column,
			"message", res.Err.Message)
		logr.FromContextOrDiscard(ctx).V(1).Info("first error", "rule", res.Err.Rule)
	}
	a.events.Record(ctx, "analysis", msg, fields...)
	return nil
}

// countingSource counts pulled tokens and stops when the context is done.
type countingSource struct {
	ctx context.Context
	src parser.TokenSource
	n   int
}

func (c *countingSource) NextToken() (parser.Token, error) {
	if err := c.ctx.Err(); err != nil {
		return parser.Token{}, err
	}
	tok, err := c.src.NextToken()
	if err == nil {
		c.n++
	}
	return tok, err
}
