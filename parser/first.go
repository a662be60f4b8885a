package parser

import (
	"github.com/emirpasic/gods/v2/sets/hashset"
)

// FIRST sets used to pick a production from the lookahead's category.
var (
	valueLiterals = hashset.New(IntVal, DoubleVal, BoolVal, StringVal, CharVal)

	primitiveTypes = hashset.New(IntType, DoubleType, BoolType, CharType, StringType)

	binaryOperators = hashset.New(
		Plus, Minus, Multiply, Divide, Modulo,
		And, Or,
		Equal, NotEqual,
		LessThan, LessThanEqual, GreaterThan, GreaterThanEqual,
	)

	// Starters of <expr> that are not value literals
	exprKeywords = hashset.New(Not, LParen, Nil, New, Neg, ID)

	// Starters of <bstmt> that are not expression starters
	bstmtKeywords = hashset.New(Var, Set, If, While, For, Return)
)

// IsValueLiteral reports whether tt is a primitive value (<pval>).
func IsValueLiteral(tt TokenType) bool { return valueLiterals.Contains(tt) }

// IsTypeStarter reports whether tt can begin a <dtype>.
func IsTypeStarter(tt TokenType) bool { return tt == ID || primitiveTypes.Contains(tt) }

// IsBinaryOperator reports whether tt is an <operator>.
func IsBinaryOperator(tt TokenType) bool { return binaryOperators.Contains(tt) }

// IsExpressionStarter reports whether tt can begin an <expr>.
func IsExpressionStarter(tt TokenType) bool {
	return IsValueLiteral(tt) || exprKeywords.Contains(tt)
}

// IsBlockStatementStarter reports whether tt can begin a <bstmt>.
func IsBlockStatementStarter(tt TokenType) bool {
	return IsExpressionStarter(tt) || bstmtKeywords.Contains(tt)
}

// IsStatementStarter reports whether tt can begin a top-level <stmt>.
func IsStatementStarter(tt TokenType) bool {
	return tt == Type || tt == Fun || IsBlockStatementStarter(tt)
}
