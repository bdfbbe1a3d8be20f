// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"

	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/lang"
)

func bodyFromIO(v io.ReadCloser) lang.FileBody {
	return &ioFileBody{rc: v}
}

type ioFileBody struct {
	rc io.ReadCloser
	b  []byte
}

func (body *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if len(body.b) < int(size) {
		body.b = make([]byte, size)
	}
	count, err := body.rc.Read(body.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if err == io.EOF {
		return body.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, err)
	}
	return body.b[:count], nil
}

func (body *ioFileBody) Close(ctx context.Context) error {
	return body.rc.Close()
}
