// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package imp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.implang.org/impc/internal/ast"
	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/fs"
	"gopkg.implang.org/impc/internal/lang"
)

func prepare(t *testing.T, input string) (*parserImpTokens, exc.Reporter) {
	t.Helper()
	ctx := context.Background()
	f := fs.NewFileString("/test", input, lang.FileKindImp)
	rep := exc.NewReporter(nil)
	lexer := NewLexerImp(rep)
	lexerFile, err := lexer.Lex(ctx, f)
	require.Nil(t, err)
	parser := NewParserImp(rep)
	p, err := parser.PrepareParse(ctx, lexerFile)
	require.Nil(t, err)
	return p, rep
}

func TestParser(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		parser   func(p *parserImpTokens) any
		expected any
	}{
		{
			name:     "literal",
			input:    "42",
			parser:   func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Literal{Value: 42},
		},
		{
			name:     "variable",
			input:    "counter",
			parser:   func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Var{Name: "counter"},
		},
		{
			name:   "product binds tighter than sum",
			input:  "2 + 3 * 4",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Infix{
				Left: &ast.Literal{Value: 2},
				Op:   ast.OperatorAdd,
				Right: &ast.Infix{
					Left:  &ast.Literal{Value: 3},
					Op:    ast.OperatorMul,
					Right: &ast.Literal{Value: 4},
				},
			},
		},
		{
			name:   "subtraction is left associative",
			input:  "10 - 3 - 2",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Infix{
				Left: &ast.Infix{
					Left:  &ast.Literal{Value: 10},
					Op:    ast.OperatorSub,
					Right: &ast.Literal{Value: 3},
				},
				Op:    ast.OperatorSub,
				Right: &ast.Literal{Value: 2},
			},
		},
		{
			name:   "division is left associative",
			input:  "8 / 2 / 2",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Infix{
				Left: &ast.Infix{
					Left:  &ast.Literal{Value: 8},
					Op:    ast.OperatorDiv,
					Right: &ast.Literal{Value: 2},
				},
				Op:    ast.OperatorDiv,
				Right: &ast.Literal{Value: 2},
			},
		},
		{
			name:   "parentheses group",
			input:  "2 * (3 + 4)",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Infix{
				Left: &ast.Literal{Value: 2},
				Op:   ast.OperatorMul,
				Right: &ast.Infix{
					Left:  &ast.Literal{Value: 3},
					Op:    ast.OperatorAdd,
					Right: &ast.Literal{Value: 4},
				},
			},
		},
		{
			name:   "call",
			input:  "add(1, 2)",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Call{
				Function: ast.FunctionDescriptor{Name: "add", Arity: 2},
				Args:     []ast.Term{&ast.Literal{Value: 1}, &ast.Literal{Value: 2}},
			},
		},
		{
			name:   "call without arguments",
			input:  "now()",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Call{
				Function: ast.FunctionDescriptor{Name: "now", Arity: 0},
				Args:     []ast.Term{},
			},
		},
		{
			name:   "call with trailing comma",
			input:  "inc(1,)",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Call{
				Function: ast.FunctionDescriptor{Name: "inc", Arity: 1},
				Args:     []ast.Term{&ast.Literal{Value: 1}},
			},
		},
		{
			name:   "nested call argument",
			input:  "add(inc(1), 2)",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Call{
				Function: ast.FunctionDescriptor{Name: "add", Arity: 2},
				Args: []ast.Term{
					&ast.Call{
						Function: ast.FunctionDescriptor{Name: "inc", Arity: 1},
						Args:     []ast.Term{&ast.Literal{Value: 1}},
					},
					&ast.Literal{Value: 2},
				},
			},
		},
		{
			name:   "scope",
			input:  "{ 1 }",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.Scope{
				Body: ast.Block{Tail: &ast.Literal{Value: 1}},
			},
		},
		{
			name:   "while",
			input:  "while n { n }",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.While{
				Cond: &ast.Var{Name: "n"},
				Body: ast.Block{Tail: &ast.Var{Name: "n"}},
			},
		},
		{
			name:   "if else",
			input:  "if c { 1 } else { 2 }",
			parser: func(p *parserImpTokens) any { return p.parseTerm() },
			expected: &ast.If{
				Cond: &ast.Var{Name: "c"},
				Then: &ast.Scope{Body: ast.Block{Tail: &ast.Literal{Value: 1}}},
				Else: &ast.Scope{Body: ast.Block{Tail: &ast.Literal{Value: 2}}},
			},
		},
		{
			name:     "let",
			input:    "let a = 1;",
			parser:   func(p *parserImpTokens) any { return p.parseStatementLet() },
			expected: &ast.Let{Name: "a", Value: &ast.Literal{Value: 1}},
		},
		{
			name:     "let mut",
			input:    "let mut a = 1;",
			parser:   func(p *parserImpTokens) any { return p.parseStatementLet() },
			expected: &ast.LetMut{Name: "a", Value: &ast.Literal{Value: 1}},
		},
		{
			name:   "mutate",
			input:  "a = a + 1;",
			parser: func(p *parserImpTokens) any { return p.parseStatementMutate() },
			expected: &ast.Mutate{
				Name: "a",
				Value: &ast.Infix{
					Left:  &ast.Var{Name: "a"},
					Op:    ast.OperatorAdd,
					Right: &ast.Literal{Value: 1},
				},
			},
		},
		{
			name:     "extern with base type",
			input:    "extern limit : I32;",
			parser:   func(p *parserImpTokens) any { return p.parseStatementExtern() },
			expected: &ast.Extern{Name: "limit", Type: &ast.TypeI32{}},
		},
		{
			name:     "extern with named type",
			input:    "extern flag : Bool;",
			parser:   func(p *parserImpTokens) any { return p.parseStatementExtern() },
			expected: &ast.Extern{Name: "flag", Type: &ast.TypeNamed{Name: "Bool"}},
		},
		{
			name:   "extern with function type",
			input:  "extern add : (I32, I32) -> I32;",
			parser: func(p *parserImpTokens) any { return p.parseStatementExtern() },
			expected: &ast.Extern{
				Name: "add",
				Type: &ast.TypeFunction{
					Params: []ast.Type{&ast.TypeI32{}, &ast.TypeI32{}},
					Result: &ast.TypeI32{},
				},
			},
		},
		{
			name:   "block with statements and tail",
			input:  "{ let a = 1; a }",
			parser: func(p *parserImpTokens) any { return p.ParseBlock() },
			expected: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Let{Name: "a", Value: &ast.Literal{Value: 1}},
				},
				Tail: &ast.Var{Name: "a"},
			},
		},
		{
			name:     "block without a trailing term",
			input:    "{ let a = 1; }",
			parser:   func(p *parserImpTokens) any { return p.ParseBlock() },
			expected: (*ast.Block)(nil),
		},
		{
			name:   "term statement",
			input:  "{ report(1); 0 }",
			parser: func(p *parserImpTokens) any { return p.ParseBlock() },
			expected: &ast.Block{
				Stmts: []ast.Statement{
					&ast.TermSemicolon{
						Term: &ast.Call{
							Function: ast.FunctionDescriptor{Name: "report", Arity: 1},
							Args:     []ast.Term{&ast.Literal{Value: 1}},
						},
					},
				},
				Tail: &ast.Literal{Value: 0},
			},
		},
		{
			name:   "mutation is not an equality term",
			input:  "{ a = 1; a }",
			parser: func(p *parserImpTokens) any { return p.ParseBlock() },
			expected: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Mutate{Name: "a", Value: &ast.Literal{Value: 1}},
				},
				Tail: &ast.Var{Name: "a"},
			},
		},
		{
			name:   "comments and newlines are insignificant",
			input:  "{\n  let a = 1; -- bind a\n  {- the block's\n     value -}\n  a\n}",
			parser: func(p *parserImpTokens) any { return p.ParseBlock() },
			expected: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Let{Name: "a", Value: &ast.Literal{Value: 1}},
				},
				Tail: &ast.Var{Name: "a"},
			},
		},
		{
			name:  "unit",
			input: "{\n  let mut i = 0;\n  while i {\n    i = i - 1;\n    i\n  }\n}",
			parser: func(p *parserImpTokens) any {
				return p.ParseUnit()
			},
			expected: &ast.Block{
				Stmts: []ast.Statement{
					&ast.LetMut{Name: "i", Value: &ast.Literal{Value: 0}},
				},
				Tail: &ast.While{
					Cond: &ast.Var{Name: "i"},
					Body: ast.Block{
						Stmts: []ast.Statement{
							&ast.Mutate{
								Name: "i",
								Value: &ast.Infix{
									Left:  &ast.Var{Name: "i"},
									Op:    ast.OperatorSub,
									Right: &ast.Literal{Value: 1},
								},
							},
						},
						Tail: &ast.Var{Name: "i"},
					},
				},
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p, _ := prepare(t, testCase.input)
			require.Equal(t, testCase.expected, testCase.parser(p))
		})
	}
}

func TestParserErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		input    string
		code     string
		location lang.Location
	}{
		{
			name:     "missing operand reports at the offending token",
			input:    "{ 1 + }",
			code:     exc.CodeUnexpectedToken,
			location: lang.Location{Line: 1, Column: 7, Offset: 6},
		},
		{
			name:     "trailing input after the top-level block",
			input:    "{ 1 } 2",
			code:     exc.CodeTrailingInput,
			location: lang.Location{Line: 1, Column: 7, Offset: 6},
		},
		{
			name:     "literal out of range",
			input:    "{ 9223372036854775808 }",
			code:     exc.CodeInvalidLiteral,
			location: lang.Location{Line: 1, Column: 3, Offset: 2},
		},
		{
			name:     "unterminated block",
			input:    "{ 1",
			code:     exc.CodeUnexpectedEOF,
			location: lang.Location{Line: 1, Column: 3, Offset: 3},
		},
		{
			name:     "empty block has no value",
			input:    "{}",
			code:     exc.CodeUnexpectedToken,
			location: lang.Location{Line: 1, Column: 2, Offset: 1},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			p, rep := prepare(t, testCase.input)
			require.Nil(t, p.ParseUnit())
			reported := rep.Reported()
			require.NotEmpty(t, reported)
			require.Equal(t, testCase.code, reported[0].Code())
			require.Equal(t, exc.Location{
				URI:      "/test",
				Location: testCase.location,
			}, reported[0].Location())
		})
	}
}

// Parsing the same source twice yields identical trees.
func TestParserDeterministic(t *testing.T) {
	t.Parallel()
	input := "{ let mut a = 0; a = add(a, 1) * 2; if a { a } else { 0 - a } }"
	p1, rep1 := prepare(t, input)
	p2, rep2 := prepare(t, input)
	first := p1.ParseUnit()
	second := p2.ParseUnit()
	require.NotNil(t, first)
	require.Empty(t, rep1.Reported())
	require.Empty(t, rep2.Reported())
	require.Equal(t, first, second)
}
