// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.implang.org/impc/internal/ast"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		root *ast.Block
	}{
		{
			name: "literal tail",
			root: &ast.Block{Tail: &ast.Literal{Value: 42}},
		},
		{
			name: "every statement form",
			root: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Let{Name: "a", Value: &ast.Literal{Value: 1}},
					&ast.LetMut{Name: "b", Value: &ast.Var{Name: "a"}},
					&ast.Mutate{Name: "b", Value: &ast.Literal{Value: 2}},
					&ast.TermSemicolon{Term: &ast.Call{
						Function: ast.FunctionDescriptor{Name: "report", Arity: 1},
						Args:     []ast.Term{&ast.Var{Name: "b"}},
					}},
					&ast.Extern{Name: "add", Type: &ast.TypeFunction{
						Params: []ast.Type{&ast.TypeI32{}, &ast.TypeNamed{Name: "Bool"}},
						Result: &ast.TypeI32{},
					}},
				},
				Tail: &ast.Var{Name: "b"},
			},
		},
		{
			name: "every term form",
			root: &ast.Block{
				Tail: &ast.If{
					Cond: &ast.Infix{
						Left:  &ast.Literal{Value: 1},
						Op:    ast.OperatorSub,
						Right: &ast.Var{Name: "n"},
					},
					Then: &ast.Scope{Body: ast.Block{
						Tail: &ast.While{
							Cond: &ast.Var{Name: "n"},
							Body: ast.Block{Tail: &ast.Literal{Value: 0}},
						},
					}},
					Else: &ast.Scope{Body: ast.Block{
						Tail: &ast.Call{
							Function: ast.FunctionDescriptor{Name: "now", Arity: 0},
							Args:     []ast.Term{},
						},
					}},
				},
			},
		},
		{
			name: "all operators",
			root: &ast.Block{
				Tail: &ast.Infix{
					Left: &ast.Infix{
						Left:  &ast.Literal{Value: 1},
						Op:    ast.OperatorAdd,
						Right: &ast.Literal{Value: 2},
					},
					Op: ast.OperatorMul,
					Right: &ast.Infix{
						Left:  &ast.Literal{Value: 8},
						Op:    ast.OperatorDiv,
						Right: &ast.Literal{Value: 4},
					},
				},
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			encoded, err := Encode(testCase.root)
			require.Nil(t, err)
			decoded, err := Decode(encoded)
			require.Nil(t, err)
			require.Equal(t, testCase.root, decoded)
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "unsupported version",
			input: "version: 2\nroot:\n  stmts: []\n  tail:\n    kind: literal\n    value: 1\n",
		},
		{
			name:  "missing root",
			input: "version: 1\n",
		},
		{
			name:  "unknown term kind",
			input: "version: 1\nroot:\n  stmts: []\n  tail:\n    kind: lambda\n",
		},
		{
			name:  "unknown statement kind",
			input: "version: 1\nroot:\n  stmts:\n    - kind: goto\n  tail:\n    kind: literal\n    value: 1\n",
		},
		{
			name:  "missing block tail",
			input: "version: 1\nroot:\n  stmts: []\n",
		},
		{
			name:  "arity disagrees with arguments",
			input: "version: 1\nroot:\n  stmts: []\n  tail:\n    kind: call\n    function:\n      name: f\n      arity: 2\n    args:\n      - kind: literal\n        value: 1\n",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(testCase.input))
			require.NotNil(t, err)
		})
	}
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()
	_, err := Encode(nil)
	require.NotNil(t, err)
}
