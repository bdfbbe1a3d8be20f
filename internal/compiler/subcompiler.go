// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/lang"
)

type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool) (*lang.Unit, error)
}

func DefaultSubCompilers() map[lang.FileKind]SubCompiler {
	return map[lang.FileKind]SubCompiler{
		lang.FileKindImp:  &SubCompilerImp{},
		lang.FileKindTree: &SubCompilerTree{},
	}
}
