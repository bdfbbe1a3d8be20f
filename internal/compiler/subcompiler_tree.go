// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"

	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/lang"
	"gopkg.implang.org/impc/internal/wire"
)

// SubCompilerTree loads trees that were previously serialized by the
// frontend, so downstream tooling can re-ingest its own output.
type SubCompilerTree struct{}

func (self *SubCompilerTree) CompileFile(ctx context.Context, r exc.Reporter, file lang.File, dumpTokens bool) (*lang.Unit, error) {
	body, err := file.Body(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close(ctx)
	var content bytes.Buffer
	for {
		chunk, err := body.Read(ctx, 4096)
		content.Write(chunk)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	root, err := wire.Decode(content.Bytes())
	if err != nil {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, err.Error())
		return nil, r.Report(e)
	}
	return &lang.Unit{URI: file.Path(ctx), Root: root}, nil
}
