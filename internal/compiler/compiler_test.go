// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.implang.org/impc/internal/ast"
	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/fs"
	"gopkg.implang.org/impc/internal/lang"
	"gopkg.implang.org/impc/internal/wire"
)

type fsFixture map[string]lang.File

func (f fsFixture) Open(ctx context.Context, uri string) ([]lang.File, error) {
	file, ok := f[uri]
	if !ok {
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, "file not found")
	}
	return []lang.File{file}, nil
}

func (f fsFixture) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "read only")
}

func newFrontend(t *testing.T, files fsFixture) lang.Frontend {
	t.Helper()
	c, err := New(
		OptionWithFS(files),
		OptionWithExcReporter(exc.NewReporter(nil)),
	)
	require.Nil(t, err)
	return c
}

func TestCompile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := newFrontend(t, fsFixture{
		"/main.imp": fs.NewFileString("/main.imp", "{ let a = 2; a * 3 }", lang.FileKindImp),
	})
	out, err := c.Compile(ctx, &lang.CompileRequest{Files: []string{"/main.imp"}})
	require.Nil(t, err)
	require.Len(t, out.Units, 1)
	require.Equal(t, "/main.imp", out.Units[0].URI)
	require.Equal(t, &ast.Block{
		Stmts: []ast.Statement{
			&ast.Let{Name: "a", Value: &ast.Literal{Value: 2}},
		},
		Tail: &ast.Infix{
			Left:  &ast.Var{Name: "a"},
			Op:    ast.OperatorMul,
			Right: &ast.Literal{Value: 3},
		},
	}, out.Units[0].Root)
	require.Empty(t, out.Units[0].Tokens)
}

func TestCompileDumpTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := newFrontend(t, fsFixture{
		"/main.imp": fs.NewFileString("/main.imp", "{ 1 }", lang.FileKindImp),
	})
	out, err := c.Compile(ctx, &lang.CompileRequest{
		Files:      []string{"/main.imp"},
		DumpTokens: true,
	})
	require.Nil(t, err)
	require.Len(t, out.Units, 1)
	types := make([]lang.TokenType, 0, len(out.Units[0].Tokens))
	for _, token := range out.Units[0].Tokens {
		types = append(types, token.Type)
	}
	require.Equal(t, []lang.TokenType{
		lang.TokenTypeCurlyOpen,
		lang.TokenTypeIntegerDecimal,
		lang.TokenTypeCurlyClose,
	}, types)
}

func TestCompileReportsExceptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := newFrontend(t, fsFixture{
		"/bad.imp": fs.NewFileString("/bad.imp", "{ 1 + }", lang.FileKindImp),
	})
	_, err := c.Compile(ctx, &lang.CompileRequest{Files: []string{"/bad.imp"}})
	require.NotNil(t, err)
	me, ok := err.(MultiException)
	require.True(t, ok, "expected a MultiException, got %T", err)
	require.Len(t, me, 1)
	require.Equal(t, exc.CodeUnexpectedToken, me[0].Code())
}

func TestCompileTreeInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := &ast.Block{
		Stmts: []ast.Statement{
			&ast.LetMut{Name: "n", Value: &ast.Literal{Value: 3}},
		},
		Tail: &ast.Var{Name: "n"},
	}
	encoded, err := wire.Encode(root)
	require.Nil(t, err)

	c := newFrontend(t, fsFixture{
		"/main.imptree": fs.NewFileString("/main.imptree", string(encoded), lang.FileKindTree),
	})
	out, err := c.Compile(ctx, &lang.CompileRequest{Files: []string{"/main.imptree"}})
	require.Nil(t, err)
	require.Len(t, out.Units, 1)
	require.Equal(t, root, out.Units[0].Root)
}

func TestCompileSkipsUnknownKinds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := newFrontend(t, fsFixture{
		"/readme.txt": fs.NewFileString("/readme.txt", "not source", lang.FileKindNone),
	})
	out, err := c.Compile(ctx, &lang.CompileRequest{Files: []string{"/readme.txt"}})
	require.Nil(t, err)
	require.Empty(t, out.Units)
}

func TestCompileDeduplicatesTargets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := newFrontend(t, fsFixture{
		"/main.imp": fs.NewFileString("/main.imp", "{ 0 }", lang.FileKindImp),
	})
	out, err := c.Compile(ctx, &lang.CompileRequest{
		Files: []string{"/main.imp", "/main.imp"},
	})
	require.Nil(t, err)
	require.Len(t, out.Units, 1)
}
