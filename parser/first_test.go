package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstSets(t *testing.T) {
	tests := []struct {
		Name      string
		Type      TokenType
		Literal   bool
		TypeStart bool
		Operator  bool
		Expr      bool
		BStmt     bool
		Stmt      bool
	}{
		{Name: "int-literal", Type: IntVal, Literal: true, Expr: true, BStmt: true, Stmt: true},
		{Name: "char-literal", Type: CharVal, Literal: true, Expr: true, BStmt: true, Stmt: true},
		{Name: "id", Type: ID, TypeStart: true, Expr: true, BStmt: true, Stmt: true},
		{Name: "int-type", Type: IntType, TypeStart: true},
		{Name: "string-type", Type: StringType, TypeStart: true},
		{Name: "nil", Type: Nil, Expr: true, BStmt: true, Stmt: true},
		{Name: "not", Type: Not, Expr: true, BStmt: true, Stmt: true},
		{Name: "neg", Type: Neg, Expr: true, BStmt: true, Stmt: true},
		{Name: "lparen", Type: LParen, Expr: true, BStmt: true, Stmt: true},
		{Name: "and", Type: And, Operator: true},
		{Name: "modulo", Type: Modulo, Operator: true},
		{Name: "not-equal", Type: NotEqual, Operator: true},
		{Name: "while", Type: While, BStmt: true, Stmt: true},
		{Name: "return", Type: Return, BStmt: true, Stmt: true},
		{Name: "type", Type: Type, Stmt: true},
		{Name: "fun", Type: Fun, Stmt: true},
		{Name: "assign", Type: Assign},
		{Name: "end", Type: End},
		{Name: "eos", Type: EOS},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Literal, IsValueLiteral(tc.Type), "value literal")
			assert.Equal(t, tc.TypeStart, IsTypeStarter(tc.Type), "type starter")
			assert.Equal(t, tc.Operator, IsBinaryOperator(tc.Type), "binary operator")
			assert.Equal(t, tc.Expr, IsExpressionStarter(tc.Type), "expression starter")
			assert.Equal(t, tc.BStmt, IsBlockStatementStarter(tc.Type), "block statement starter")
			assert.Equal(t, tc.Stmt, IsStatementStarter(tc.Type), "statement starter")
		})
	}
}

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, While, LookupIdent("while"))
	assert.Equal(t, BoolVal, LookupIdent("true"))
	assert.Equal(t, ID, LookupIdent("whilst"))
	assert.Len(t, Keywords(), 25)
}
