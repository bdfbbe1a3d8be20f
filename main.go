// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"gopkg.implang.org/impc/internal/compiler"
	"gopkg.implang.org/impc/internal/fs"
	"gopkg.implang.org/impc/internal/lang"
	"gopkg.implang.org/impc/internal/wire"
)

type opts struct {
	Roots      []string
	Output     string
	DumpTokens bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("impc", pflag.PanicOnError)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for source files.")
	flags.StringVar(&op.Output, "output", ".", "Output directory or - for STDOUT.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream before the tree")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()

	output, absErr := filepath.Abs(op.Output)
	if absErr != nil {
		panic(absErr)
	}

	f, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		panic(err)
	}

	mf := make(fs.FileSystemMulti, 0, len(op.Roots)+1)
	for _, root := range op.Roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			panic(errAbs.Error())
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			panic(err.Error())
		}
		mf = append(mf, rf)
	}
	mf = append(mf, f)

	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
	)
	if err != nil {
		panic(err)
	}

	out, err := c.Compile(ctx, &lang.CompileRequest{
		Files:      targets,
		DumpTokens: op.DumpTokens,
	})
	if err != nil {
		var me compiler.MultiException
		if errors.As(err, &me) {
			for _, err := range me {
				fmt.Fprintln(os.Stderr, err.Error())
			}
			os.Exit(1)
		}
		panic(err)
	}

	for _, unit := range out.Units {
		if op.DumpTokens {
			for _, token := range unit.Tokens {
				fmt.Printf("%-24s", token.Type)
				if token.Type != lang.TokenTypeNewline {
					fmt.Printf("'%s'", token.Value)
				}
				fmt.Println()
			}
		}
		encoded, err := wire.Encode(unit.Root)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if op.Output == "-" {
			fmt.Printf("%s", encoded)
			continue
		}
		name := filepath.Base(unit.URI) + "tree"
		if err = os.MkdirAll(output, 0o770); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if err = os.WriteFile(filepath.Join(output, name), encoded, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}
}
