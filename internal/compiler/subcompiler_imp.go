// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.implang.org/impc/internal/compiler/imp"
	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/lang"
)

type SubCompilerImp struct{}

func (self *SubCompilerImp) CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool) (*lang.Unit, error) {
	lexer := imp.NewLexerImp(r)
	parser := imp.NewParserImp(r)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	unit := &lang.Unit{URI: file.Path(ctx)}
	if dumpTokens {
		stream, err := lf.Tokens(ctx)
		if err != nil {
			return nil, err
		}
		for tok := stream.Next(ctx); tok.IsPresent(); tok = stream.Next(ctx) {
			unit.Tokens = append(unit.Tokens, tok.Value())
		}
	}
	root, err := parser.Parse(ctx, lf)
	if err != nil {
		return nil, err
	}
	unit.Root = root
	return unit, nil
}
